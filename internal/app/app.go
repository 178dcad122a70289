package app

import (
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"project-pulse/internal/config"
	"project-pulse/pkg/eventgraph"
	"project-pulse/pkg/task"
	"project-pulse/pkg/tracker"
)

// App holds the wired tracker components.
type App struct {
	Config  config.TrackerConfig
	Store   *task.MemStore
	Bus     *eventgraph.Bus
	Tracker *tracker.Tracker
	Logger  zerolog.Logger
	Out     io.Writer
}

// New seeds the store, builds the bus and tracker, and registers the
// completion logger.
func New(cfg config.TrackerConfig, clock clockwork.Clock, logger zerolog.Logger, out io.Writer) (*App, error) {
	seed := task.DefaultSeed()
	if cfg.SeedFile != "" {
		loaded, err := task.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed %s: %w", cfg.SeedFile, err)
		}
		seed = loaded
	}

	store, err := task.NewMemStore(seed...)
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	bus := eventgraph.NewBus(eventgraph.NewMemStore(clock), logger)
	bus.On(tracker.EventTaskCompleted, tracker.LogCompletions(logger.With().Str("component", "notifier").Logger()))

	tr, err := tracker.New(store, bus, clock, tracker.Options{
		LoadDelay:   cfg.LoadDelay,
		UpdateDelay: cfg.UpdateDelay,
	}, logger.With().Str("component", "tracker").Logger())
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("projects", len(seed)).
		Str("seed_file", cfg.SeedFile).
		Msg("tracker ready")

	return &App{
		Config:  cfg,
		Store:   store,
		Bus:     bus,
		Tracker: tr,
		Logger:  logger,
		Out:     out,
	}, nil
}
