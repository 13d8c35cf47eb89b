// Command tickers fetches the configured tickers once and prints them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rickgao/coinpulse/internal/api"
	"github.com/rickgao/coinpulse/internal/config"
	"github.com/rickgao/coinpulse/internal/format"
	"github.com/rickgao/coinpulse/internal/model"
	"github.com/rickgao/coinpulse/internal/store"
	"github.com/rickgao/coinpulse/internal/symbols"
	"github.com/rickgao/coinpulse/internal/tickers"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults when empty)")
	query := flag.String("q", "", "filter by abbreviation or name")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	table, err := symbols.NewTable(cfg.Symbols)
	if err != nil {
		logger.Error("invalid symbol table", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.API.RestURL, api.WithLogger(logger), api.WithTimeout(cfg.API.Timeout))
	repo := tickers.NewRepository(client, store.NewMemory(), table, tickers.Config{TTL: cfg.Cache.TTL}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	list, err := repo.GetTickers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch tickers: %v\n", err)
		os.Exit(1)
	}
	list = model.FilterTickers(list, *query)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(list) == 0 {
		fmt.Println("no tickers")
		return
	}
	printTable(os.Stdout, list)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return config.LoadWithDefaults(path)
}

func printTable(w io.Writer, list []model.Ticker) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "COIN\tNAME\tPRICE\t24H\t")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			deref(t.AbbreviatedName, deref(t.Symbol, "?")),
			deref(t.Label, "-"),
			price(t.LastPrice),
			percent(t.DailyChangeRelative))
	}
	tw.Flush()
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func price(v *float64) string {
	if v == nil {
		return "-"
	}
	return format.Price(*v)
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return format.Percent(*v)
}
