// Package cost estimates the electricity cost of running workshop machines
// under a peak/off-peak tariff.
package cost

import (
	"github.com/smartworkshop/workshopcost/pkg/types"
)

const (
	// PeakWarningHours is the daily peak-period runtime above which a machine
	// is flagged. Exactly this many hours does not warn.
	PeakWarningHours = 12
	// DaysPerMonth is the fixed month length used for monthly estimates.
	DaysPerMonth = 30

	// PeakAdvisory is attached to results that exceed PeakWarningHours.
	PeakAdvisory = "Operates more than 12h in peak time. Consider shifting to off-peak."
)

// ComputeMachineCost splits a machine's daily runtime between the peak and
// off-peak periods and prices the resulting energy with the tariff.
//
// Inputs are not validated. Out-of-range or negative values produce
// correspondingly odd results and NaN propagates to the outputs.
func ComputeMachineCost(m types.Machine, tariff types.Tariff) types.MachineCostResult {
	peakHours := m.OperatingHours * (m.PeakPercentage / 100)
	offPeakHours := m.OperatingHours - peakHours

	// kWh = kW * h
	peakEnergy := m.PowerRating * peakHours
	offPeakEnergy := m.PowerRating * offPeakHours

	dailyPeakCost := peakEnergy * tariff.PeakRate
	dailyOffPeakCost := offPeakEnergy * tariff.OffPeakRate
	dailyCost := dailyPeakCost + dailyOffPeakCost

	res := types.MachineCostResult{
		Machine:       m,
		PeakHours:     peakHours,
		OffPeakHours:  offPeakHours,
		PeakEnergy:    peakEnergy,
		OffPeakEnergy: offPeakEnergy,
		DailyCost:     dailyCost,
		MonthlyCost:   dailyCost * DaysPerMonth,
		HasWarning:    peakHours > PeakWarningHours,
	}
	if res.HasWarning {
		res.Advisory = PeakAdvisory
	}
	return res
}

// ComputeFleetTotals sums the daily and monthly cost of every result.
func ComputeFleetTotals(results []types.MachineCostResult) types.FleetTotals {
	var totals types.FleetTotals
	for _, r := range results {
		totals.TotalDailyBill += r.DailyCost
		totals.TotalMonthlyBill += r.MonthlyCost
	}
	return totals
}

// BuildReport computes every machine in order and the fleet totals.
func BuildReport(machines []types.Machine, tariff types.Tariff) types.CostReport {
	report := types.CostReport{
		Tariff:  tariff,
		Results: make([]types.MachineCostResult, 0, len(machines)),
	}
	for _, m := range machines {
		res := ComputeMachineCost(m, tariff)
		if res.HasWarning {
			report.WarningCount++
		}
		report.Results = append(report.Results, res)
	}
	report.Totals = ComputeFleetTotals(report.Results)
	return report
}
