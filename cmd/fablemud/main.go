package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fablemud/engine/internal/agent/script"
	"github.com/fablemud/engine/internal/config"
	"github.com/fablemud/engine/internal/data"
	"github.com/fablemud/engine/internal/game"
	"github.com/fablemud/engine/internal/persist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            FableMUD  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m    scripted actors · Go match server      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/fablemud.toml"
	if p := os.Getenv("FABLEMUD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Open the save store: PostgreSQL when enabled, in-memory
	// otherwise
	printSection("Storage")

	var store persist.SaveStore
	if cfg.Database.Enabled {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		if err := ensurePlayer(ctx, persist.NewAccountRepo(db), cfg.Player); err != nil {
			return fmt.Errorf("player account: %w", err)
		}
		printOK(fmt.Sprintf("player %q signed in", cfg.Player.Name))

		store = persist.NewSaveRepo(db)
	} else {
		store = persist.NewMemoryStore()
		printOK("in-memory save store")
	}
	fmt.Println()

	// 4. Load world definitions
	printSection("Data load")

	library, err := data.LoadWorldLibrary(cfg.Worlds.Dir)
	if err != nil {
		return fmt.Errorf("load worlds: %w", err)
	}
	if library.Count() == 0 {
		return fmt.Errorf("no worlds found in %s", cfg.Worlds.Dir)
	}
	printStat("Worlds", library.Count())

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 5. Build one match per world, resuming unfinished saves. Each
	// match gets its own Lua planner: the planner dies with the match.
	srv := game.NewServer(log)
	resumed := 0
	for i, name := range library.Names() {
		rec, err := store.LoadGame(ctx, name)
		if err != nil {
			return fmt.Errorf("load save %q: %w", name, err)
		}
		if rec != nil && rec.Winner != "" {
			rec = nil // finished match, start a fresh one
		}

		planner, err := script.NewPlanner(cfg.Scripts.Dir, seed+int64(i), log)
		if err != nil {
			return fmt.Errorf("lua planner: %w", err)
		}

		opts := game.Options{
			Planner:   planner,
			Store:     store,
			Log:       log,
			Seed:      seed + int64(i),
			MaxRounds: cfg.Game.MaxRounds,
		}
		if rec != nil {
			opts.Record = rec
			resumed++
		} else {
			opts.Definition = library.Get(name)
		}
		g, err := game.New(opts)
		if err != nil {
			planner.Close()
			return fmt.Errorf("game %q: %w", name, err)
		}
		srv.Add(g)
	}
	printOK("Lua scripts loaded")
	printStat("Matches resumed", resumed)
	fmt.Println()

	// 6. Run until every match ends or a shutdown signal arrives
	printSection("Server ready")
	printReady(fmt.Sprintf("%d matches starting (max %d rounds)", library.Count(), cfg.Game.MaxRounds))
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(runCtx) }()

	select {
	case sig := <-shutdownCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		stop()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	// 7. Print every match transcript
	for _, g := range srv.Games() {
		fmt.Println()
		printSection(g.Name())
		for _, line := range g.Transcript() {
			fmt.Println("  " + line)
		}
		if winner := g.Winner(); winner != "" {
			printReady(fmt.Sprintf("%s: %s win", g.Name(), winner))
		} else {
			printReady(fmt.Sprintf("%s: undecided after %d rounds", g.Name(), g.Round()))
		}
	}
	return nil
}

// ensurePlayer signs the configured player in, creating the account on
// first boot when auto-create is on.
func ensurePlayer(ctx context.Context, repo *persist.AccountRepo, cfg config.PlayerConfig) error {
	_, err := repo.Authenticate(ctx, cfg.Name, cfg.Password)
	if err == nil {
		return repo.Touch(ctx, cfg.Name)
	}
	if !errors.Is(err, persist.ErrBadCredentials) {
		return err
	}
	row, loadErr := repo.Load(ctx, cfg.Name)
	if loadErr != nil {
		return loadErr
	}
	if row != nil || !cfg.AutoCreateAccounts {
		return err
	}
	if _, err := repo.Create(ctx, cfg.Name, cfg.Password); err != nil {
		return err
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
