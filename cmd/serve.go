package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/timestables/internal/auth"
	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/server"
	"github.com/abhisek/timestables/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serves the practice API (accounts, progress, answers, history) for web and mobile clients. Configured via TIMESTABLES_* env vars or a .env file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine; env vars still apply.
		_ = godotenv.Load()

		cfg := server.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		log, err := logger.New(cfg.Mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		log.Info("store open", "path", dbPath)

		authSvc := auth.NewService(st.Users(), st.Sessions(), cfg.SessionTTL, log)
		srv, err := server.New(cfg, server.Options{
			Auth:     authSvc,
			Progress: st.Progress(),
			Events:   st.Events(),
			Sessions: st.Sessions(),
			Log:      log,
		})
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides TIMESTABLES_ADDR env var)")
}
