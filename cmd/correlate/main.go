package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"MarketCorrelator/internal/collector"
	"MarketCorrelator/internal/config"
	"MarketCorrelator/internal/logger"
	"MarketCorrelator/internal/notifier"
	"MarketCorrelator/internal/pipeline"
	"MarketCorrelator/internal/recorder"
	"MarketCorrelator/internal/scheduler"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// errUsage marks a command line that could not be parsed.
var errUsage = errors.New("usage")

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("correlate", pflag.ContinueOnError)
	flags.StringP("tickers", "t", "", "comma separated tickers (prompted for when omitted on a terminal)")
	flags.StringP("start", "s", "", "start date YYYY-MM-DD (default 2021-01-01)")
	flags.StringP("end", "e", "", "end date YYYY-MM-DD, exclusive (default today)")
	flags.StringP("outdir", "o", "", "directory for charts and CSV (default outputs)")
	flags.Bool("save-csv", false, "also write the cleaned price table as CSV")
	flags.Bool("display", false, "show charts instead of saving them")
	flags.String("config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	flags.String("cron", "", "repeat the analysis on this cron schedule (with seconds field)")
	return flags
}

// loadConfig parses args and layers flags the user set over the config file and env.
// Display turns on by itself inside a notebook unless --display was given.
func loadConfig(args []string) (*config.Config, *pflag.FlagSet, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, flags, err
		}
		return nil, flags, fmt.Errorf("%w: %v", errUsage, err)
	}

	path, _ := flags.GetString("config")
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, flags, fmt.Errorf("load config: %w", err)
	}

	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("tickers", &cfg.Tickers)
	str("start", &cfg.Start)
	str("end", &cfg.End)
	str("outdir", &cfg.OutDir)
	str("cron", &cfg.Schedule.Cron)
	if flags.Changed("save-csv") {
		cfg.SaveCSV, _ = flags.GetBool("save-csv")
	}
	if flags.Changed("display") {
		cfg.Display, _ = flags.GetBool("display")
	} else if pipeline.InNotebook() {
		cfg.Display = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, flags, fmt.Errorf("config validation: %w", err)
	}
	return cfg, flags, nil
}

func run(args []string) int {
	cfg, flags, err := loadConfig(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2 // pflag already printed the error and usage
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg.DataSource, cfg.Proxy)
	if err != nil {
		log.Error("init data source", zap.Error(err))
		return 1
	}
	log.Info("data source", zap.String("provider", fetcher.Name()))

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	startAt, endAt, _ := cfg.Window()
	runner := pipeline.NewRunner(collector.NewCollector(fetcher, log), pipeline.Options{
		Start:     startAt,
		End:       endAt,
		StartText: cfg.Start,
		EndText:   cfg.End,
		OutDir:    cfg.OutDir,
		SaveCSV:   cfg.SaveCSV,
		Display:   cfg.Display,
		DPI:       cfg.Chart.DPI,
		WidthIn:   cfg.Chart.Width,
		HeightIn:  cfg.Chart.Height,
	}, log)
	runner.Recorder = rec
	if cfg.TelegramEnabled() {
		runner.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Info("telegram notifications enabled")
	}

	resolver := &pipeline.Resolver{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: func() bool { return pipeline.IsTerminal(os.Stdin) },
		Defaults:    config.DefaultTickers,
	}
	symbols := resolver.Resolve(cfg.Tickers, cfg.Tickers != "" || flags.Changed("tickers"))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if cfg.Schedule.Cron == "" {
		go func() {
			select {
			case <-sigCh:
				log.Info("shutdown signal received, stopping...")
				cancel()
			case <-ctx.Done():
			}
		}()
		_, err := runner.Run(ctx, symbols)
		if err != nil && !pipeline.IsBenign(err) {
			fmt.Fprintf(os.Stderr, "correlate: %v\n", err)
			return 1
		}
		return 0
	}

	// Watch mode
	sched := scheduler.NewScheduler(ctx, log)
	err = sched.Register(cfg.Schedule.Cron, "correlate", func(ctx context.Context) error {
		_, err := runner.Run(ctx, symbols)
		if pipeline.IsBenign(err) {
			return nil
		}
		return err
	})
	if err != nil {
		log.Error("register cron task", zap.Error(err))
		return 1
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, running analysis now")
		go func() {
			if err := sched.RunNow("correlate"); err != nil {
				log.Error("initial run", zap.Error(err))
			}
		}()
	}

	log.Info("watching, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron), zap.Strings("tickers", symbols))
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	return 0
}
