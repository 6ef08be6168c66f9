package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(opts *rootOptions, deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Send a test prompt to the configured summarizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			client, err := deps.Summarizer(cfg)
			if err != nil {
				return err
			}

			logger.Info("pinging summarizer", "provider", client.GetName(), "model", cfg.SummarizerModel)
			reply, err := client.Ping(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s is not reachable: %w", client.GetName(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Response: %s\n", reply)
			return nil
		},
	}
}
