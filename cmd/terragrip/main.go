package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/joho/godotenv"

	"terragrip/internal/bulk"
	"terragrip/internal/config"
	"terragrip/internal/datasource"
	"terragrip/internal/datasource/memory"
	"terragrip/internal/datasource/postgres"
	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/logger"
	"terragrip/internal/ui"
)

func main() {
	// Environment overrides come from .env when present.
	_ = godotenv.Load()

	var configPath string
	var dsn string
	var verbose bool
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.StringVar(&dsn, "dsn", os.Getenv("TERRAGRIP_DB_DSN"), "Postgres DSN for the explore data source")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg := loadOrCreateConfig(configPath)
	if dsn == "" {
		dsn = cfg.DB.DSN
	}

	level := int8(0)
	if verbose || cfg.Log.Verbose {
		level = -1
	}
	log := logger.Get(logger.Options{Level: level, FilePath: cfg.Log.File})
	defer logger.Sync()

	bus := eventbus.New(log)

	store, err := memory.NewStore(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating store: %v\n", err)
		os.Exit(1)
	}
	memory.Seed(store)

	// The map and plan records always render from the in-memory store;
	// the DSN switches only the explore queries and bulk mutations over
	// to Postgres.
	var source datasource.Source = store
	var bulkStore bulk.Store = store
	if dsn != "" {
		pg, err := postgres.Open(dsn, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(); err != nil {
			fmt.Fprintf(os.Stderr, "Error preparing schema: %v\n", err)
			os.Exit(1)
		}
		source = pg
		bulkStore = pg
		log.Info("using postgres data source")
	}

	bulkSvc := bulk.NewService(bulkStore, bus, log)

	model, err := ui.NewModel(bus, cfg, store, source, bulkSvc, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing UI: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Column-order changes persist immediately so the next session
	// rehydrates them.
	configSvc := config.NewConfigService()
	unsubCols := bus.Subscribe(domain.EventColumnsChanged, func(e eventbus.DomainEvent) {
		ev, ok := e.(domain.ColumnsChangedEvent)
		if !ok {
			return
		}
		if cfg.Explore.Columns == nil {
			cfg.Explore.Columns = make(map[string][]string)
		}
		cfg.Explore.Columns[string(ev.Entity)] = ev.Columns
		saveConfig(configSvc, cfg, configPath, log)
	})
	defer unsubCols()

	// Forward service-side events into the update loop.
	for _, et := range []eventbus.EventType{
		domain.EventPlanUpdated,
		domain.EventError,
	} {
		unsub := bus.Subscribe(et, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
		defer unsub()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func saveConfig(svc config.ConfigService, cfg *config.Config, path string, log logr.Logger) {
	var err error
	if path != "" {
		err = svc.SaveToPath(cfg, path)
	} else {
		err = svc.Save(cfg)
	}
	if err != nil {
		log.Error(err, "saving config")
	}
}

// loadOrCreateConfig loads the config file, writing defaults on first run.
func loadOrCreateConfig(path string) *config.Config {
	svc := config.NewConfigService()

	if path != "" {
		cfg, err := svc.LoadFromPath(path)
		if err == nil {
			return cfg
		}
		cfg = config.DefaultConfig()
		if err := svc.SaveToPath(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
		}
		return cfg
	}

	cfg, err := svc.Load()
	if err == nil {
		return cfg
	}
	cfg = config.DefaultConfig()
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}
	return cfg
}
