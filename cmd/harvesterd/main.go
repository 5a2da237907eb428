package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/rbright/waybar-harvester/internal/config"
	"github.com/rbright/waybar-harvester/internal/feed"
	"github.com/rbright/waybar-harvester/internal/logging"
	"github.com/rbright/waybar-harvester/internal/server"
)

var (
	listenAddr  string
	logLevel    string
	logFormat   string
	refreshCron string
	zone        string
)

var serveFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "listen, l",
		Usage:       "address to serve HTTP on (default: from config, 127.0.0.1:3000)",
		Destination: &listenAddr,
	},
	cli.StringFlag{
		Name:        "log-level",
		Usage:       "debug, info, warn or error",
		Destination: &logLevel,
	},
	cli.StringFlag{
		Name:        "log-format",
		Usage:       "text or json",
		Destination: &logFormat,
	},
	cli.StringFlag{
		Name:        "refresh-cron",
		Usage:       "cron schedule for feed refreshes (default: @every 1m)",
		Destination: &refreshCron,
	},
}

var nextFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "tz",
		Usage:       "IANA zone to display times in (default: from config)",
		Destination: &zone,
	},
}

func main() {
	app := cli.App{
		Name:      "harvesterd",
		HelpName:  "harvesterd",
		Usage:     "Harvester event timers over HTTP.",
		UsageText: "harvesterd <command> [arguments...]",
		Commands: []cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "run the HTTP server and the feed refresher",
				Action:  serve,
				Flags:   serveFlags,
			},
			{
				Name:    "next",
				Aliases: []string{"n"},
				Usage:   "print the next event summary and exit",
				Action:  next,
				Flags:   nextFlags,
			},
		},
		Action:      serve,
		Flags:       serveFlags,
		HideVersion: true,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg)

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	srv := server.New(feed.New(cfg.FeedURL, cfg.Timeout), server.Options{
		EventName:        cfg.EventName,
		RespectDayFilter: cfg.RespectDayFilter,
		IconBaseURL:      cfg.IconBaseURL,
		Location:         cfg.Location,
		CacheTTL:         cfg.CacheTTL,
		ShortcutPhrases:  cfg.ShortcutPhrases,
		Logger:           logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Listen)
	})
	group.Go(func() error {
		return srv.RunRefresher(ctx, cfg.RefreshCron)
	})

	if err := group.Wait(); err != nil {
		logger.Error("harvesterd stopped", "error", err)
		return err
	}
	logger.Info("harvesterd stopped")
	return nil
}

func next(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	location := cfg.Location
	if zone != "" {
		location, err = time.LoadLocation(zone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", zone, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
	defer cancel()

	srv := server.New(feed.New(cfg.FeedURL, cfg.Timeout), server.Options{
		EventName:        cfg.EventName,
		RespectDayFilter: cfg.RespectDayFilter,
		IconBaseURL:      cfg.IconBaseURL,
		Location:         location,
		Logger:           logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat),
	})

	text, err := srv.NextEventText(ctx)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func applyFlags(cfg *config.Runtime) {
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if refreshCron != "" {
		cfg.RefreshCron = refreshCron
	}
}
