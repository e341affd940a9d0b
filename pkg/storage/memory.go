package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/smartworkshop/workshopcost/pkg/types"
)

// Memory keeps the machine list and tariff in process memory. Everything is
// lost on restart.
type Memory struct {
	mu       sync.Mutex
	tariff   *types.Tariff
	machines []types.Machine
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Database = (*Memory)(nil)

func (m *Memory) checkOpen() error {
	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	return nil
}

// GetTariff implements Database
func (m *Memory) GetTariff(ctx context.Context) (types.Tariff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return types.Tariff{}, err
	}
	if m.tariff == nil {
		return types.DefaultTariff(), nil
	}
	return *m.tariff, nil
}

// SetTariff implements Database
func (m *Memory) SetTariff(ctx context.Context, tariff types.Tariff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}
	m.tariff = &tariff
	return nil
}

// ListMachines implements Database
func (m *Memory) ListMachines(ctx context.Context) ([]types.Machine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	return slices.Clone(m.machines), nil
}

// AddMachine implements Database
func (m *Memory) AddMachine(ctx context.Context, machine types.Machine) error {
	if machine.ID == "" {
		return errEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}
	if m.indexOf(machine.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrMachineExists, machine.ID)
	}
	m.machines = append(m.machines, machine)
	return nil
}

// RemoveMachine implements Database
func (m *Memory) RemoveMachine(ctx context.Context, id string) error {
	if id == "" {
		return errEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMachineNotFound, id)
	}
	m.machines = slices.Delete(m.machines, i, i+1)
	return nil
}

func (m *Memory) indexOf(id string) int {
	return slices.IndexFunc(m.machines, func(mc types.Machine) bool {
		return mc.ID == id
	})
}

// Close implements Database
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
