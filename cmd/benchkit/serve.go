package main

import (
	"fmt"

	"benchkit/internal/history"
	"benchkit/internal/web"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve benchmark runs over HTTP",
		Long: `Starts an HTTP server exposing GET /bench (runs the suite, query
parameters configure the run), GET /urlbench (repeat-fetch a URL and
aggregate), GET /healthz and GET /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = viper.GetString("listen")
			}

			var store history.Store
			if !noSave {
				if !cmd.Flags().Changed("db") {
					dbPath = viper.GetString("history_db")
				}
				s, err := newStoreFunc(dbPath)
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				defer s.Close()
				store = s
			}

			return web.NewServer(newHarnessFunc(), addr, store).Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", ".benchkit/history.db", "Run history database path")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist runs triggered over HTTP")
	return cmd
}
