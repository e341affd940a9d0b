package types

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidInput is wrapped by every validation error so callers can tell
// bad input apart from storage or transport failures.
var ErrInvalidInput = errors.New("invalid input")

const (
	// MaxOperatingHours is the number of hours in a day.
	MaxOperatingHours = 24
	// MaxPeakPercentage is the largest share of operating time that can fall
	// in the peak period.
	MaxPeakPercentage = 100
	// MaxPowerRating bounds a single machine's draw (in kW). Together with
	// MaxRate it keeps every computed cost finite.
	MaxPowerRating = 1e6
)

// Machine is a single piece of workshop equipment being costed.
type Machine struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// PowerRating is the electrical draw while operating (in kW).
	PowerRating float64 `json:"powerRating"`
	// OperatingHours is how long the machine runs each day.
	OperatingHours float64 `json:"operatingHours"`
	// PeakPercentage is the share (0-100) of OperatingHours that falls in the
	// peak tariff period.
	PeakPercentage float64 `json:"peakPercentage"`
}

// NewMachine creates a machine with a random ID and validates it.
func NewMachine(name string, powerRating, operatingHours, peakPercentage float64) (Machine, error) {
	m := Machine{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		PowerRating:    powerRating,
		OperatingHours: operatingHours,
		PeakPercentage: peakPercentage,
	}
	if err := m.Validate(); err != nil {
		return Machine{}, err
	}
	return m, nil
}

// Validate checks that the machine is within the ranges accepted when adding
// it to a fleet. The cost calculation itself does not require this.
func (m Machine) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: machine name is required", ErrInvalidInput)
	}
	if !isFinite(m.PowerRating) || m.PowerRating < 0 || m.PowerRating > MaxPowerRating {
		return fmt.Errorf("%w: power rating must be between 0 and %g kW", ErrInvalidInput, float64(MaxPowerRating))
	}
	if !isFinite(m.OperatingHours) || m.OperatingHours < 0 || m.OperatingHours > MaxOperatingHours {
		return fmt.Errorf("%w: operating hours must be between 0 and %d", ErrInvalidInput, MaxOperatingHours)
	}
	if !isFinite(m.PeakPercentage) || m.PeakPercentage < 0 || m.PeakPercentage > MaxPeakPercentage {
		return fmt.Errorf("%w: peak percentage must be between 0 and %d", ErrInvalidInput, MaxPeakPercentage)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
