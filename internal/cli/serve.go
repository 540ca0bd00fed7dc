package cli

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nationaldynamics/internal/api"
	"nationaldynamics/internal/catalog"
	"nationaldynamics/internal/dataset"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the indicator dashboard API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "CSV data directory (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	dataDir := cfg.DataDir
	if serveDataDir != "" {
		dataDir = serveDataDir
	}

	labels := catalog.DefaultLabels()
	if cfg.LabelsFile != "" {
		loaded, err := catalog.LoadLabels(cfg.LabelsFile)
		if err != nil {
			return err
		}
		labels = loaded
	}

	// Optional Postgres tables join the catalog alongside the CSV directory.
	var extra []*dataset.Table
	if cfg.PostgresURL != "" {
		source, err := dataset.ConnectPostgres(cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer source.Close()

		extra, err = source.LoadAll(cfg.PostgresLimit)
		if err != nil {
			return err
		}
		logger.Info("loaded Postgres indicator tables", zap.Int("tables", len(extra)))
	}

	builder := catalog.NewBuilder(labels, logger)
	cache := catalog.NewCache(builder, dataDir, extra, logger)
	defer cache.Close()

	handler := api.NewHandler(cache, dataDir, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("National Dynamics backend is running"))
	})
	handler.RegisterRoutes(r)

	logger.Info("starting indicator backend",
		zap.String("addr", addr),
		zap.String("data_dir", dataDir),
		zap.Strings("cors_origins", cfg.CORSOrigins))

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
	}
	return server.ListenAndServe()
}
