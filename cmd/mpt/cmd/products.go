package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/market-price-tracker/internal/api/client"
)

func productsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "products",
		Short: "Inspect tracked products",
		Long:  "List tracked products, show their price history and analyze price trends.",
	}

	root.AddCommand(
		productsListCmd(),
		productsGetCmd(),
		productsAnalyzeCmd(),
		productsDeleteCmd(),
	)
	return root
}

func productsListCmd() *cobra.Command {
	var params apiclient.ListProductsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked products",
		Example: `  mpt products list
  mpt products list --search kettle --order-by updated
  mpt products list --limit 10 --offset 20 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListProducts(cmd.Context(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Products) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return err
			}
			return printProductsTable(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&params.Search, "search", "", "filter by name or key substring")
	cmd.Flags().IntVar(&params.Limit, "limit", 50, "max results (1-500)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&params.OrderBy, "order-by", "", "sort order (key, name, updated)")
	return cmd
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Show a product and its price history",
		Example: `  mpt products get https://www.example.in/dp/B0ABCDEF12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newClient().GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), p)
			}
			return printProductDetail(cmd.OutOrStdout(), p)
		},
	}
}

func productsAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <key>",
		Short: "Forecast the next price and flag anomalous observations",
		Example: `  mpt products analyze https://www.example.in/dp/B0ABCDEF12
  mpt products analyze https://www.example.in/dp/B0ABCDEF12 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newClient().AnalyzeProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), a)
			}
			return printAnalysis(cmd.OutOrStdout(), a)
		},
	}
}

func productsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Short:   "Stop tracking a product",
		Example: `  mpt products delete https://www.example.in/dp/B0ABCDEF12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking %s\n", args[0])
			return err
		},
	}
}
