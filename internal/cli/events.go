package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/worldreports/internal/adapters/nats"
	"github.com/samirrijal/worldreports/internal/core/domain"
)

func newEventsCmd(flags *globalFlags) *cobra.Command {
	var durable string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the reports the API serves",
		Long: `Follow the report events the API publishes to NATS JetStream and print
one line per report until interrupted. With --durable the consumer resumes
where it left off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if !cfg.NATS.Enabled {
				return fmt.Errorf("nats is disabled in the configuration")
			}

			sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, durable)
			if err != nil {
				return err
			}
			defer sub.Close()

			out := cmd.OutOrStdout()
			err = sub.SubscribeReportEvents(cmd.Context(), func(_ context.Context, e *domain.ReportEvent) error {
				_, err := fmt.Fprintln(out, formatEvent(e))
				return err
			})
			if err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&durable, "durable", "", "Durable consumer name")
	return cmd
}

func formatEvent(e *domain.ReportEvent) string {
	req := domain.Request{
		Family:  e.Family,
		Scope:   e.Scope,
		Name:    e.Name,
		Country: e.Country,
		Limit:   domain.Limit(e.Limit),
	}
	return fmt.Sprintf("%s  %s  rows=%d  %dms", e.At.Format("15:04:05"), req, e.Rows, e.DurationMS)
}
