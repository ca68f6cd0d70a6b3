package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/market-price-tracker/internal/api/client"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
)

// trackFlags are shared by the commands that record a price.
type trackFlags struct {
	email     string
	threshold float64
}

func (f *trackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "address to alert when the threshold is reached")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "alert when the price is at or below this amount")
}

func (f *trackFlags) params(cmd *cobra.Command) apiclient.TrackParams {
	p := apiclient.TrackParams{Email: f.email}
	if cmd.Flags().Changed("threshold") {
		th := f.threshold
		p.Threshold = &th
	}
	return p
}

func trackCmd() *cobra.Command {
	var (
		flags trackFlags
		query string
	)

	cmd := &cobra.Command{
		Use:   "track [url]",
		Short: "Record the current price of a listing",
		Long: "Fetch a source listing, record its price and compare it with the\n" +
			"best match on the target marketplace. With --query, search the source\n" +
			"marketplace for the description and track the best result instead.",
		Example: `  mpt track https://www.example.in/dp/B0ABCDEF12 --threshold 2500 --email me@example.com
  mpt track --query "acme steel kettle 1.5l"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			params := flags.params(cmd)

			var (
				res *engine.TrackResult
				err error
			)
			switch {
			case query != "" && len(args) == 0:
				res, err = c.TrackByQuery(cmd.Context(), query, params)
			case query == "" && len(args) == 1:
				res, err = c.Track(cmd.Context(), args[0], params)
			default:
				return errors.New("provide either a listing URL or --query")
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printTrackResult(cmd.OutOrStdout(), res)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&query, "query", "", "track the best source result for this description")
	return cmd
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <url>",
		Short: "Compare a listing across marketplaces without recording it",
		Example: `  mpt compare https://www.example.in/dp/B0ABCDEF12
  mpt compare https://www.example.in/dp/B0ABCDEF12 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := newClient().Compare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), cmp)
			}
			return printComparison(cmd.OutOrStdout(), cmp)
		},
	}
}

func manualCmd() *cobra.Command {
	var (
		flags trackFlags
		name  string
		price float64
	)

	cmd := &cobra.Command{
		Use:   "manual <url>",
		Short: "Record a price by hand",
		Long: "Record a price for a listing that could not be read automatically.\n" +
			"The entry joins the product's history like any fetched price.",
		Example: `  mpt manual https://www.example.in/dp/B0ABCDEF12 --name "Acme Kettle" --price 2499`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().ManualEntry(cmd.Context(), args[0], name, price, flags.params(cmd))
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printTrackResult(cmd.OutOrStdout(), res)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().Float64Var(&price, "price", 0, "observed price")
	cobra.CheckErr(cmd.MarkFlagRequired("name"))
	cobra.CheckErr(cmd.MarkFlagRequired("price"))
	return cmd
}
