// Command labeldemo lays out the labels of a GeoJSON file with a symbol
// layer style and prints a per-tile summary.
//
// Configuration comes from an optional config file, LABELDEMO_*
// environment variables and defaults:
//
//	style = "roads.yaml"
//	input = "roads.geojson"
//	zoom = 14
//	workers = 8
//	debug = true
//
//	[shaper]
//	kind = "gotext"
//	cache_size = 1024
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[metrics]
//	dump = true
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/maplabel"
)

var (
	hf bool
	cf string
)

func init() {
	flag.BoolVar(&hf, "h", false, "show help")
	flag.StringVar(&cf, "c", "", "config file (toml, yaml or json)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `labeldemo lays out map labels per tile
Usage: labeldemo [-h] [-c filename]
`)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if hf {
		flag.Usage()
		return
	}

	cfg, err := loadConfig(newViper(), cf)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	maplabel.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Error("labeldemo failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// newLogger builds the slog logger for cfg. Unknown levels fall back to info.
func newLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
