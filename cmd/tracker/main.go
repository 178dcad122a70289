package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jonboulle/clockwork"

	"project-pulse/internal/app"
	"project-pulse/internal/config"
	"project-pulse/internal/logger"
)

func main() {
	bootLog := logger.Default()

	cfg, err := config.NewReader(os.Getenv("CONFIG_PATH")).Read()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to read config")
	}
	bootLog.Info().Str("env", cfg.Env).Msg("read config")

	log, err := logger.New(cfg.Env, os.Stderr)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to init logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg.Tracker, clockwork.NewRealClock(), log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tracker")
	}

	cmd := "demo"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "demo":
		err = a.RunDemo(ctx)
	case "help", "-h", "--help":
		usage()
		return
	default:
		if _, ok := app.Reports[cmd]; !ok {
			usage()
			os.Exit(1)
		}
		err = a.Report(ctx, cmd)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func usage() {
	names := make([]string, 0, len(app.Reports))
	for name := range app.Reports {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "Usage: tracker [demo|help|<report>]")
	fmt.Fprintf(os.Stderr, "Reports: %v\n", names)
	fmt.Fprintln(os.Stderr, "Environment: ENV, CONFIG_PATH, TRACKER_LOAD_DELAY, TRACKER_UPDATE_DELAY, TRACKER_SEED_FILE, TRACKER_PROJECT_ID, TRACKER_TASK_ID")
}
