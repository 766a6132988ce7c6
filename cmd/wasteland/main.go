// Wasteland runs the wasteland quest, dialogue and faction core in a
// terminal.
// Usage: wasteland [--version] [--config <file>] [--plain] [--script <file>] [--trace] [content_dir]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dannifaze-code/wasteland-japan-sub000/cli"
	"github.com/dannifaze-code/wasteland-japan-sub000/config"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine"
	"github.com/dannifaze-code/wasteland-japan-sub000/engine/save"
	"github.com/dannifaze-code/wasteland-japan-sub000/loader"
	"github.com/dannifaze-code/wasteland-japan-sub000/tui"
	"github.com/dannifaze-code/wasteland-japan-sub000/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: wasteland [--version] [--config <file>] [--plain] [--script <file>] [--trace] [content_dir]\n"

func main() {
	plain := false
	trace := false
	var contentDir, scriptFile, configFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("wasteland %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				configFile = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if contentDir != "" {
		cfg.Game.ContentDir = contentDir
	}

	log, err := newLogger(cfg.Game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, plain, trace, scriptFile); err != nil {
		log.Error("fatal", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger, plain, trace bool, scriptFile string) error {
	defs, err := loader.Load(cfg.Game.ContentDir, log)
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	store, err := openStore(cfg.Save)
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	defer store.Close()

	g := engine.New(defs,
		engine.WithSeed(cfg.Game.Seed),
		engine.WithLogger(log),
		engine.WithTunables(cfg.Faction),
		engine.WithTileSize(cfg.Game.TileSize),
		engine.WithViewRadius(cfg.Game.ViewRadius),
	)
	if cfg.Game.StartX != 0 || cfg.Game.StartZ != 0 {
		g.MoveTo(types.Vec2{X: cfg.Game.StartX, Z: cfg.Game.StartZ})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		printBanner(defs)
		c := cli.New(g, store, log)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run(ctx)
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs)
		c := cli.New(g, store, log)
		c.Trace = trace
		c.Run(ctx)
		return nil
	}

	frame := time.Duration(cfg.Game.FrameMs) * time.Millisecond
	return tui.Run(g, store, frame, log)
}

func printBanner(defs *types.Defs) {
	banner := defs.Game.Title
	if defs.Game.Version != "" {
		banner += " v" + defs.Game.Version
	}
	if defs.Game.Author != "" {
		banner += " by " + defs.Game.Author
	}
	fmt.Printf("%s\n\n", banner)
}

// newLogger writes to the configured log file so the terminal UI is not
// overdrawn. Debug mode switches to the development encoder and level.
func newLogger(gc config.GameConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if gc.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	if gc.LogFile == "" {
		return zap.NewNop(), nil
	}
	zc.OutputPaths = []string{gc.LogFile}
	zc.ErrorOutputPaths = []string{gc.LogFile}
	return zc.Build(zap.Fields(zap.String("version", version)))
}

func openStore(sc config.SaveConfig) (save.Store, error) {
	if sc.Mode == "sqlite" {
		return save.NewSQLiteStore(sc.SQLitePath)
	}
	return save.NewFileStore(sc.Dir), nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
