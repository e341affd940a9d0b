package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/smartworkshop/workshopcost/pkg/client"
	"github.com/smartworkshop/workshopcost/pkg/log"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

// sampleFleet is a small workshop with one machine over the peak threshold.
var sampleFleet = []struct {
	name           string
	powerRating    float64
	operatingHours float64
	peakPercentage float64
}{
	{"Lathe A", 10, 10, 50},
	{"Air Compressor", 5, 20, 70},
	{"CNC Mill", 7.5, 8, 25},
	{"Band Saw", 1.5, 4, 100},
	{"Dust Extractor", 2.2, 12, 60},
	{"Kiln", 0, 24, 100},
}

func main() {
	serverURL := lflag.String("server-url", "http://127.0.0.1:8080", "Base URL of the workshopcost server")
	reset := lflag.Bool("reset", false, "Remove existing machines before seeding")
	lflag.Configure()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := client.New(*serverURL, nil)

	log.Ctx(ctx).InfoContext(ctx, "seeding sample fleet", "server", *serverURL)

	if *reset {
		existing, err := c.ListMachines(ctx)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to list machines", "error", err)
			os.Exit(1)
		}
		for _, m := range existing {
			if err := c.RemoveMachine(ctx, m.ID); err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to remove machine", "machineID", m.ID, "error", err)
				os.Exit(1)
			}
		}
	}

	if _, err := c.SetTariff(ctx, types.DefaultTariff()); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to seed tariff", "error", err)
		os.Exit(1)
	}

	for _, s := range sampleFleet {
		m, err := c.AddMachine(ctx, s.name, s.powerRating, s.operatingHours, s.peakPercentage)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed machine", "name", s.name, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %s (%s): %.1fkW, %.1fh/day, %.0f%% peak\n", m.Name, m.ID, m.PowerRating, m.OperatingHours, m.PeakPercentage)
	}

	report, err := c.Report(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch report", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "seeded sample fleet successfully",
		"machines", len(report.Results),
		"warnings", report.WarningCount,
		"totalDailyBill", report.Totals.TotalDailyBill,
	)
}
