package cmd

import "github.com/spf13/cobra"

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-track every product now",
		Long: "Fetch the current price of every tracked product, record it and send\n" +
			"alerts for thresholds that were reached. Failures are reported per product.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := newClient().Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), sum)
			}
			return printRefreshSummary(cmd.OutOrStdout(), sum)
		},
	}
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show counts over the tracked products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newClient().SystemState(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), st)
			}
			return printStats(cmd.OutOrStdout(), st)
		},
	}
}
