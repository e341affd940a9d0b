package types

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// FleetFile is the on-disk form of a fleet used by the offline estimator.
type FleetFile struct {
	// Tariff is optional, the caller's default applies when omitted.
	Tariff   *Tariff   `json:"tariff,omitempty"`
	Machines []Machine `json:"machines"`
}

// ReadFleetFile decodes a fleet file and assigns IDs to machines that lack
// one. When strict is set, every machine and the tariff must validate.
func ReadFleetFile(r io.Reader, strict bool) (FleetFile, error) {
	var f FleetFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return FleetFile{}, fmt.Errorf("failed to decode fleet file: %w", err)
	}

	seen := make(map[string]bool, len(f.Machines))
	for i := range f.Machines {
		m := &f.Machines[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if seen[m.ID] {
			return FleetFile{}, fmt.Errorf("%w: duplicate machine id %s", ErrInvalidInput, m.ID)
		}
		seen[m.ID] = true
		if strict {
			if err := m.Validate(); err != nil {
				return FleetFile{}, fmt.Errorf("machine %d (%s): %w", i, m.Name, err)
			}
		}
	}
	if strict && f.Tariff != nil {
		if err := f.Tariff.Validate(); err != nil {
			return FleetFile{}, err
		}
	}
	return f, nil
}
