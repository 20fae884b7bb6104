package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"PriceWatch/internal/calculator"
	"PriceWatch/internal/collector"
	"PriceWatch/internal/config"
	"PriceWatch/internal/logger"
	"PriceWatch/internal/notifier"
)

// Exit codes.
const (
	exitOK         = 0
	exitNoData     = 1 // empty download or not enough history
	exitUnexpected = 2
)

// fetcherFactory builds the data provider selected by cfg.
type fetcherFactory func(cfg *config.Config) (collector.Fetcher, error)

func defaultFetcher(cfg *config.Config) (collector.Fetcher, error) {
	switch cfg.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy), nil
	case "polygon":
		return collector.NewPolygonFetcher(cfg.DataSource.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.DataSource.Provider)
	}
}

// runEnv is the per-invocation state shared by the commands.
type runEnv struct {
	cfg       *config.Config
	log       *logger.Logger
	collector *collector.Collector
	req       collector.Request
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to an optional YAML config file",
			Value:   "configs/config.yaml",
			Sources: cli.EnvVars("CONFIG_PATH"),
		},
		&cli.StringFlag{
			Name:    "ticker",
			Aliases: []string{"t"},
			Usage:   "ticker symbol, e.g. AAPL or SI=F",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "first day to download, `YYYY-MM-DD`",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "day after the last day to download, `YYYY-MM-DD`",
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "data provider (yahoo, polygon)",
		},
	}
}

func newCommand(stdout io.Writer, newFetcher fetcherFactory) *cli.Command {
	tailFlags := append(commonFlags(), &cli.IntFlag{
		Name:    "rows",
		Aliases: []string{"n"},
		Usage:   "number of trailing rows to print (default from config)",
	})

	return &cli.Command{
		Name:           "pricewatch",
		Usage:          "Download daily prices and track returns and moving averages",
		DefaultCommand: "report",
		Commands: []*cli.Command{
			{
				Name:  "tail",
				Usage: "Print the trailing rows of the price table with Return and SMA columns",
				Flags: tailFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					env, err := setup(cmd, newFetcher)
					if err != nil {
						return err
					}
					defer env.log.Sync()

					a, err := env.collector.Collect(ctx, env.req)
					if err != nil {
						return err
					}
					rows := env.cfg.Analytics.TailRows
					if n := int(cmd.Int("rows")); n > 0 {
						rows = n
					}
					_, err = io.WriteString(stdout, notifier.FormatTail(a.Table, rows))
					return err
				},
			},
			{
				Name:  "report",
				Usage: "Print the tracker report for the latest fully defined day",
				Flags: commonFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					env, err := setup(cmd, newFetcher)
					if err != nil {
						return err
					}
					defer env.log.Sync()
					return report(ctx, env, stdout)
				},
			},
		},
	}
}

func report(ctx context.Context, env *runEnv, stdout io.Writer) error {
	a, err := env.collector.Collect(ctx, env.req)
	if err != nil {
		return err
	}
	snap, err := calculator.Snapshot(a)
	if err != nil {
		return err
	}

	text := notifier.FormatReport(env.cfg.Report.Title, a, snap, env.cfg.Analytics.TailRows)
	if _, err := io.WriteString(stdout, text); err != nil {
		return err
	}

	if env.cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(env.cfg.Telegram.BotToken, env.cfg.Telegram.ChatID, env.cfg.Proxy)
		if err := tn.Send(ctx, text); err != nil {
			env.log.Warn("telegram delivery failed", zap.Error(err))
		} else {
			env.log.Info("report sent to telegram", zap.String("chat_id", env.cfg.Telegram.ChatID))
		}
	}
	return nil
}

func setup(cmd *cli.Command, newFetcher fetcherFactory) (*runEnv, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := cmd.String("ticker"); v != "" {
		cfg.DataSource.Ticker = v
	}
	if v := cmd.String("start"); v != "" {
		cfg.DataSource.Start = v
	}
	if v := cmd.String("end"); v != "" {
		cfg.DataSource.End = v
	}
	if v := cmd.String("provider"); v != "" {
		cfg.DataSource.Provider = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	start, end, err := cfg.DateRange(timeNow())
	if err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:       cfg,
		log:       log,
		collector: collector.NewCollector(fetcher, cfg.Analytics.SMAWindows, log),
		req: collector.Request{
			Ticker:     cfg.DataSource.Ticker,
			Start:      start,
			End:        end,
			AutoAdjust: cfg.DataSource.AutoAdjust,
		},
	}, nil
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ihe *calculator.InsufficientHistoryError
	if errors.Is(err, collector.ErrEmptyResult) || errors.As(err, &ihe) {
		return exitNoData
	}
	return exitUnexpected
}
