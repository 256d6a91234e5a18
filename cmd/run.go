package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/timu/internal/app"
	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/config"
	"github.com/abhisek/timu/internal/logger"
	"github.com/abhisek/timu/internal/quiz"
)

// deps is what every subcommand builds from the resolved config.
type deps struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func() error
	loader   bank.Loader
	runner   *quiz.Runner
}

func (d *deps) Close() {
	_ = d.closeLog()
}

// setup loads config, opens the log and builds the loader and runner.
// console, when set, also receives log lines.
func setup(cmd *cobra.Command, console io.Writer) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	loader, err := bank.NewLoader(cfg.Banks.Source, log)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("bank source: %w", err)
	}

	runner := quiz.NewRunner(quiz.Options{
		Loader:     loader,
		Categories: cfg.BankCategories(),
		Mixed:      cfg.MixedCategory(),
		Logger:     log,
	})

	log.Info("timu starting",
		zap.String("version", version),
		zap.String("banks", cfg.Banks.Source),
		zap.Int("categories", len(cfg.Categories)))

	return &deps{cfg: cfg, log: log, closeLog: closeLog, loader: loader, runner: runner}, nil
}

// runApp builds dependencies and launches the TUI, optionally straight
// into the category with id start.
func runApp(cmd *cobra.Command, start string) error {
	d, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{
		Runner:             d.runner,
		PreparationSeconds: d.cfg.PreparationSeconds,
		FeedbackDelay:      d.cfg.FeedbackDelay,
		Logger:             d.log,
	}
	if start != "" {
		cat, ok := d.runner.Category(start)
		if !ok {
			return fmt.Errorf("%w: %q", quiz.ErrUnknownCategory, start)
		}
		opts.Start = &cat
	}

	return app.Run(opts)
}
