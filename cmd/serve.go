package cmd

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"playtest_server/controllers"
	"playtest_server/routes"
	"playtest_server/services"
	"playtest_server/socket"
)

// newRouter wires the HTTP API. Simulations started over HTTP are streamed to
// the progress feed.
func newRouter(store services.PlaytestStore, archiver services.ReportArchive, feed *socket.ProgressFeed, shuffler services.Shuffler) *mux.Router {
	playtestService := &services.PlaytestService{
		Store:    store,
		Shuffler: shuffler,
		Observer: services.MultiObserver{services.StepLogger{Logger: log.Logger}, feed},
		Archiver: archiver,
	}
	dedupeService := &services.DedupeService{Store: store}

	var reports services.ReportLinker
	if archiver != nil {
		reports = archiver
	}

	r := mux.NewRouter()
	routes.RegisterRoutes(r)
	routes.RegisterPlaytestRoutes(r, controllers.NewPlaytestController(playtestService, dedupeService, feed, reports))
	return r
}

func newServeCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation API and the live progress feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			log.Info().Str("backend", d.cfg.Backend).Msg("Initializing store...")
			store, err := d.newStore(ctx, d.cfg)
			if err != nil {
				return err
			}
			archiver, err := d.newArchiver(ctx, d.cfg)
			if err != nil {
				return err
			}

			server := socket.NewSocketServer()
			go func() {
				if err := server.Serve(); err != nil {
					log.Error().Err(err).Msg("❌ Socket server stopped")
				}
			}()
			defer server.Close()

			r := newRouter(store, archiver, &socket.ProgressFeed{Server: server}, d.shuffler)
			r.Handle("/socket.io/", server)

			corsHandler := cors.New(cors.Options{
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type", "Authorization"},
				AllowCredentials: true,
			}).Handler(r)

			httpServer := &http.Server{Addr: ":" + d.cfg.Port, Handler: corsHandler}
			go func() {
				<-ctx.Done()
				httpServer.Close()
			}()

			log.Info().Str("port", d.cfg.Port).Msg("🚀 Starting server")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
