package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zappabad/tapeview/internal/config"
	"github.com/zappabad/tapeview/internal/feed"
	"github.com/zappabad/tapeview/internal/journal"
	"github.com/zappabad/tapeview/internal/replay"
	"github.com/zappabad/tapeview/internal/viewport"
	"github.com/zappabad/tapeview/tui"
)

func main() {
	configPath := flag.String("config", "tapeview.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: tapeview [-config tapeview.yaml] bundle.json [bundle.json ...]")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	engineCfg, err := cfg.ReplayConfig()
	if err != nil {
		logger.Fatal("invalid playback config", zap.Error(err))
	}

	engine, err := replay.New(engineCfg, viewport.SystemClock(), logger)
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}
	defer engine.Close()

	for _, path := range flag.Args() {
		bundle, rep, err := feed.Load(path, logger)
		if err != nil {
			logger.Fatal("load bundle", zap.String("path", path), zap.Error(err))
		}
		if rep.Skipped() > 0 {
			logger.Warn("bundle contains malformed records",
				zap.String("symbol", bundle.Symbol),
				zap.Int("skipped_bars", rep.SkippedBars),
				zap.Int("skipped_periods", rep.SkippedPeriods),
				zap.Int("skipped_trades", rep.SkippedTrades),
			)
		}
		engine.Load(bundle.Symbol, bundle.Series, bundle.Intervals, bundle.Trades)
	}

	var jnl journal.Journal = journal.NewNoopJournal()
	if cfg.Journal.SQLitePath != "" {
		sqlJnl, err := journal.NewSQLiteJournal(cfg.Journal.SQLitePath, logger)
		if err != nil {
			logger.Fatal("open journal", zap.Error(err))
		}
		jnl = sqlJnl
	}
	defer jnl.Close()

	model := tui.NewModel(engine, jnl)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Fatal("run tui", zap.Error(err))
	}
}
