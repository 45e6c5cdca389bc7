package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"playtest_server/config"
	"playtest_server/services"
	"playtest_server/utils"
)

// deps are the collaborators the commands are built from
type deps struct {
	cfg         *config.Config
	newStore    func(ctx context.Context, cfg *config.Config) (services.PlaytestStore, error)
	newArchiver func(ctx context.Context, cfg *config.Config) (services.ReportArchive, error)
	confirmer   func(yes bool) utils.Confirmer
	shuffler    services.Shuffler // nil means a random shuffle
}

func defaultDeps(cfg *config.Config) *deps {
	return &deps{
		cfg:         cfg,
		newStore:    services.NewStore,
		newArchiver: services.NewArchiver,
		confirmer: func(yes bool) utils.Confirmer {
			if yes {
				return utils.AutoConfirm(true)
			}
			return utils.PromptConfirmer{}
		},
	}
}

func newRootCmd(d *deps) *cobra.Command {
	var jsonLogs bool

	root := &cobra.Command{
		Use:           "playtest",
		Short:         "Fair playtest assignment for game submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.SetupLogger(d.cfg.LogLevel, !jsonLogs)
		},
	}
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON lines instead of console output")

	root.AddCommand(newAssignCmd(d), newDedupeCmd(d), newServeCmd(d))
	return root
}

// Execute runs the root command with the configuration from .env and the
// environment. It exits the process with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := newRootCmd(defaultDeps(cfg)).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Command failed")
		stop()
		os.Exit(1)
	}
}
