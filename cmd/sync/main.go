package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stepik-analytics/internal/app"
	"stepik-analytics/internal/types"
)

func main() {
	courseID := flag.Int64("course", 0, "stepik course id to sync (0 syncs every registered course)")
	seed := flag.Bool("seed", false, "register the default course set before syncing")
	export := flag.String("export", "", "after syncing, export a CSV for -course over this period (day, week, month, year)")
	date := flag.String("date", "", "anchor date for -export in YYYY-MM-DD (defaults to today)")
	flag.Parse()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := a.Services.Course.SeedDefaults(ctx); err != nil {
			a.Log.Error("Seeding default courses failed", "error", err)
			os.Exit(1)
		}
	}

	if *courseID != 0 {
		err = a.Services.Sync.SyncCourse(ctx, *courseID)
	} else {
		err = a.Services.Sync.SyncAll(ctx)
	}
	switch {
	case errors.Is(err, context.Canceled):
		a.Log.Warn("Sync interrupted")
		os.Exit(1)
	case err != nil:
		a.Log.Error("Sync failed", "error", err)
		os.Exit(1)
	}

	if *export != "" {
		if *courseID == 0 {
			a.Log.Error("-export requires -course")
			os.Exit(1)
		}
		path, err := exportRange(ctx, a, *courseID, *export, *date)
		if err != nil {
			a.Log.Error("Export failed", "error", err)
			os.Exit(1)
		}
		if path == "" {
			fmt.Println("No metrics in the requested range, nothing exported")
			return
		}
		fmt.Printf("Exported %s\n", path)
	}
}

func exportRange(ctx context.Context, a *app.App, courseID int64, period, date string) (string, error) {
	anchor := types.DateOf(time.Now().UTC())
	if date != "" {
		parsed, err := types.ParseDate(date)
		if err != nil {
			return "", fmt.Errorf("parse -date: %w", err)
		}
		anchor = parsed
	}
	r, err := types.RangeFrom(anchor, types.Period(period))
	if err != nil {
		return "", err
	}
	return a.Services.Export.ExportCSV(ctx, courseID, r, a.Cfg.ExportDir)
}
