package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"playtest_server/services"
	"playtest_server/utils"
)

func newDedupeCmd(d *deps) *cobra.Command {
	var live, yes bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate playtest tickets, keeping the oldest of each pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := d.newStore(ctx, d.cfg)
			if err != nil {
				return err
			}
			svc := &services.DedupeService{Store: store}

			report, err := svc.Plan(ctx)
			if err != nil {
				return err
			}

			mode := modeFromFlag(live)
			report.Mode = mode

			toDelete := len(report.ToDelete())
			if mode.IsLive() && toDelete > 0 {
				ok, err := d.confirmer(yes).Confirm(fmt.Sprintf("Delete %d duplicate tickets", toDelete))
				if err != nil {
					return err
				}
				if ok {
					svc.Apply(ctx, report)
					remaining, err := store.ListAllAssignmentRecords(ctx)
					if err != nil {
						log.Warn().Err(err).Msg("⚠️ Could not fetch remaining ticket count")
					} else {
						report.TicketsRemain = len(remaining)
						log.Info().Int("tickets", report.TicketsRemain).Msg("📋 Tickets remaining after deletion")
					}
				} else {
					log.Info().Msg("❌ Deletion cancelled")
				}
			}

			utils.RenderDedupeReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "delete duplicates instead of listing them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt in live mode")
	return cmd
}
