// Command api runs the concierge backend: it loads the catalog and repair
// rule datasets, wires the domain modules and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"fixfurn_backend/internal/catalog"
	"fixfurn_backend/internal/catalog/ingest"
	"fixfurn_backend/internal/concierge"
	"fixfurn_backend/internal/concierge/gemini"
	"fixfurn_backend/internal/events"
	apphttp "fixfurn_backend/internal/http"
	"fixfurn_backend/internal/http/router"
	"fixfurn_backend/internal/interactions"
	"fixfurn_backend/internal/repairs"
	"fixfurn_backend/platform/config"
	"fixfurn_backend/platform/httpkit"
	"fixfurn_backend/platform/logger"
	"fixfurn_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger depends on config, so this one goes to stderr raw.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	val := validator.New()
	bus := events.NewInMemoryBus(log)

	// Startup datasets. The curated catalog, rule table and persona are
	// required; the partner catalog is optional and logged when absent.
	products, err := ingest.Load(ctx, cfg.GetCatalogPath(), cfg.GetPartnerCatalogPath(), log)
	if err != nil {
		return err
	}

	persona, err := concierge.LoadPersona(cfg.GetPersonaPath())
	if err != nil {
		return err
	}

	interactionsModule, err := interactions.NewModule(cfg.GetLogDir(), bus, val, log)
	if err != nil {
		return err
	}
	interactionsModule.RegisterEventHandlers(bus)

	catalogModule := catalog.NewModule(products, val, log)

	repairsModule, err := repairs.NewModule(cfg.GetPriceRulesPath(), bus, val, log)
	if err != nil {
		return err
	}

	model, err := gemini.NewClient(ctx, gemini.Config{
		APIKey: cfg.GetGeminiAPIKey(),
		Model:  cfg.GetGeminiModel(),
	})
	if err != nil {
		return err
	}

	conciergeModule := concierge.NewModule(model,
		concierge.ToolDependencies{
			Catalog:      catalogModule.Service(),
			Repairs:      repairsModule.Service(),
			Interactions: interactionsModule.Service(),
		},
		persona,
		concierge.Config{
			MaxToolIterations: cfg.GetMaxToolIterations(),
			BackendTimeout:    cfg.GetBackendTimeout(),
		},
		val, log)

	app := &apphttp.App{
		Config:          cfg,
		Logger:          log,
		ChatRateLimiter: httpkit.NewIPRateLimiter(rate.Limit(cfg.GetChatRatePerSecond()), cfg.GetChatRateBurst(), log),
		Modules: []apphttp.Module{
			catalogModule,
			repairsModule,
			conciergeModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"addr", cfg.GetHTTPAddr(),
			"env", cfg.Env,
			"products", catalogModule.Service().ProductCount())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
