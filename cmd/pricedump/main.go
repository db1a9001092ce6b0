// Package main is a one-shot extraction tool: it runs the vendor pipelines
// once and prints the normalized records as JSON, for eyeballing what the
// service would serve.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/haiminh/metal-price-crawler/internal/config"
	"github.com/haiminh/metal-price-crawler/internal/extractor"
	"github.com/haiminh/metal-price-crawler/internal/extractor/btmc"
	"github.com/haiminh/metal-price-crawler/internal/extractor/phuquy"
	collyfetcher "github.com/haiminh/metal-price-crawler/internal/fetcher/colly"
	"github.com/haiminh/metal-price-crawler/internal/logging"
	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	vendor := flag.String("vendor", "all", "Vendor to extract: phuquy, btmc or all")
	commodity := flag.String("commodity", "all", "Commodity to extract: gold, silver or all")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall deadline for the run")
	flag.Parse()

	if err := run(*cfgPath, *vendor, *commodity, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "pricedump: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, vendor, commodity string, timeout time.Duration) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fetch := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})

	var sources []extractor.Source
	switch vendor {
	case "phuquy":
		sources = append(sources, phuquy.New(fetch, logger, phuquy.Config{
			GoldURL:   cfg.Vendors.PhuQuy.GoldURL,
			SilverURL: cfg.Vendors.PhuQuy.SilverURL,
		}))
	case "btmc":
		sources = append(sources, btmc.New(fetch, logger, btmc.Config{
			GoldURL:   cfg.Vendors.BTMC.GoldURL,
			SilverURL: cfg.Vendors.BTMC.SilverURL,
			Referer:   cfg.Vendors.BTMC.Referer,
		}))
	case "all":
		sources = append(sources,
			phuquy.New(fetch, logger, phuquy.Config{
				GoldURL:   cfg.Vendors.PhuQuy.GoldURL,
				SilverURL: cfg.Vendors.PhuQuy.SilverURL,
			}),
			btmc.New(fetch, logger, btmc.Config{
				GoldURL:   cfg.Vendors.BTMC.GoldURL,
				SilverURL: cfg.Vendors.BTMC.SilverURL,
				Referer:   cfg.Vendors.BTMC.Referer,
			}),
		)
	default:
		return fmt.Errorf("unknown vendor %q", vendor)
	}

	var commodities []pricing.Commodity
	switch commodity {
	case "gold":
		commodities = []pricing.Commodity{pricing.Gold}
	case "silver":
		commodities = []pricing.Commodity{pricing.Silver}
	case "all":
		commodities = []pricing.Commodity{pricing.Gold, pricing.Silver}
	default:
		return fmt.Errorf("unknown commodity %q", commodity)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := map[string][]pricing.Record{}
	for _, c := range commodities {
		for _, src := range sources {
			out[string(c)] = append(out[string(c)], src.Prices(ctx, c)...)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
