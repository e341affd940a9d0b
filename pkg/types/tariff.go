package types

import "fmt"

// MaxRate bounds both tariff rates (in $ per kWh).
const MaxRate = 1e4

// Tariff is the pair of per-kWh prices applied to peak and off-peak energy.
type Tariff struct {
	PeakRate    float64 `json:"peakRate"`    // $ per kWh
	OffPeakRate float64 `json:"offPeakRate"` // $ per kWh
}

// DefaultTariff is used until a tariff has been set.
func DefaultTariff() Tariff {
	return Tariff{
		PeakRate:    0.15,
		OffPeakRate: 0.08,
	}
}

// Validate checks that both rates are non-negative numbers.
func (t Tariff) Validate() error {
	if !isFinite(t.PeakRate) || t.PeakRate < 0 || t.PeakRate > MaxRate {
		return fmt.Errorf("%w: peak rate must be between 0 and %g", ErrInvalidInput, float64(MaxRate))
	}
	if !isFinite(t.OffPeakRate) || t.OffPeakRate < 0 || t.OffPeakRate > MaxRate {
		return fmt.Errorf("%w: off-peak rate must be between 0 and %g", ErrInvalidInput, float64(MaxRate))
	}
	return nil
}
