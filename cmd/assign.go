package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"playtest_server/models"
	"playtest_server/services"
	"playtest_server/utils"
)

func modeFromFlag(live bool) models.Mode {
	if live {
		return models.ModeLive
	}
	return models.ModeSimulate
}

func newAssignCmd(d *deps) *cobra.Command {
	var live, yes bool

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Pair games needing playtests with players using circular matching",
		Long: `Expands every demand record into game and player slots, shuffles both pools
and walks them with the circular matcher. Runs as a simulation unless --live
is given, in which case a ticket is created for every assignment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mode := modeFromFlag(live)

			store, err := d.newStore(ctx, d.cfg)
			if err != nil {
				return err
			}
			archiver, err := d.newArchiver(ctx, d.cfg)
			if err != nil {
				return err
			}

			if mode.IsLive() {
				ok, err := d.confirmer(yes).Confirm("This will create playtest tickets in the store. Continue")
				if err != nil {
					return err
				}
				if !ok {
					log.Info().Msg("❌ Live assignment cancelled")
					return nil
				}
			} else {
				log.Info().Msg("🔍 Simulation mode, no tickets will be created")
			}

			svc := &services.PlaytestService{
				Store:    store,
				Shuffler: d.shuffler,
				Observer: services.StepLogger{Logger: log.Logger},
				Archiver: archiver,
			}
			report, err := svc.Run(ctx, mode)
			if err != nil {
				return err
			}

			utils.RenderRunReport(cmd.OutOrStdout(), report, d.cfg.ReportLimit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "create tickets in the store instead of simulating")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt in live mode")
	return cmd
}
