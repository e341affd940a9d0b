package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/levenlabs/go-lflag"
	"github.com/smartworkshop/workshopcost/pkg/cost"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

func main() {
	fleetPath := lflag.RequiredString("fleet", "Path to a JSON fleet file")
	tariff := types.DefaultTariff()
	lflag.JSON(&tariff, "tariff", tariff, `JSON tariff used when the fleet file has none, e.g. {"peakRate":0.15,"offPeakRate":0.08}`)
	strict := lflag.Bool("strict", true, "Reject machines outside the accepted input ranges")
	lflag.Configure()

	os.Exit(execute(os.Stdout, os.Stderr, *fleetPath, tariff, *strict))
}

// execute prints the report to stdout and logs failures to stderr so the
// report output stays clean when piped. It returns the process exit code.
func execute(stdout, stderr io.Writer, path string, tariff types.Tariff, strict bool) int {
	if err := run(stdout, path, tariff, strict); err != nil {
		logger := slog.New(slog.NewJSONHandler(stderr, nil))
		logger.Error("estimate failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func run(w io.Writer, path string, tariff types.Tariff, strict bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fleet file: %w", err)
	}
	defer f.Close()

	fleet, err := types.ReadFleetFile(f, strict)
	if err != nil {
		return err
	}
	if fleet.Tariff != nil {
		tariff = *fleet.Tariff
	}
	if strict {
		if err := tariff.Validate(); err != nil {
			return err
		}
	}

	return printReport(w, cost.BuildReport(fleet.Machines, tariff))
}

func printReport(w io.Writer, report types.CostReport) error {
	fmt.Fprintf(w, "Tariff: peak $%.4f/kWh, off-peak $%.4f/kWh\n\n", report.Tariff.PeakRate, report.Tariff.OffPeakRate)
	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No machines.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Machine\tkW\tPeak h\tOff-peak h\tPeak kWh\tOff-peak kWh\tDaily\tMonthly\t")
		for _, r := range report.Results {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t$%.2f\t$%.2f\t\n",
				r.Machine.Name, r.Machine.PowerRating,
				r.PeakHours, r.OffPeakHours,
				r.PeakEnergy, r.OffPeakEnergy,
				r.DailyCost, r.MonthlyCost,
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nTotal daily bill: $%.2f\n", report.Totals.TotalDailyBill)
	fmt.Fprintf(w, "Total monthly bill: $%.2f\n", report.Totals.TotalMonthlyBill)
	for _, r := range report.Results {
		if r.HasWarning {
			fmt.Fprintf(w, "Warning: %s: %s\n", r.Machine.Name, r.Advisory)
		}
	}
	return nil
}
