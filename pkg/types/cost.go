package types

// MachineCostResult is the cost breakdown for one machine under a tariff. It
// is always derived from a Machine and Tariff and never stored.
type MachineCostResult struct {
	Machine Machine `json:"machine"`

	PeakHours    float64 `json:"peakHours"`
	OffPeakHours float64 `json:"offPeakHours"`

	PeakEnergy    float64 `json:"peakEnergy"`    // kWh
	OffPeakEnergy float64 `json:"offPeakEnergy"` // kWh

	DailyCost   float64 `json:"dailyCost"`
	MonthlyCost float64 `json:"monthlyCost"`

	HasWarning bool `json:"hasWarning"`
	// Advisory is the message shown alongside a warning, empty otherwise.
	Advisory string `json:"advisory,omitempty"`
}

// FleetTotals is the combined bill across a fleet.
type FleetTotals struct {
	TotalDailyBill   float64 `json:"totalDailyBill"`
	TotalMonthlyBill float64 `json:"totalMonthlyBill"`
}

// CostReport is the response type for the report endpoint
type CostReport struct {
	Tariff       Tariff              `json:"tariff"`
	Results      []MachineCostResult `json:"results"`
	Totals       FleetTotals         `json:"totals"`
	WarningCount int                 `json:"warningCount"`
}
