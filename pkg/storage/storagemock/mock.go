package storagemock

import (
	"context"

	"github.com/smartworkshop/workshopcost/pkg/storage"
	"github.com/smartworkshop/workshopcost/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetTariff(ctx context.Context) (types.Tariff, error) {
	args := m.Called(ctx)
	// return the default if not specified
	if len(args) > 0 {
		return args.Get(0).(types.Tariff), args.Error(1)
	}
	return types.DefaultTariff(), nil
}

func (m *MockDatabase) SetTariff(ctx context.Context, tariff types.Tariff) error {
	args := m.Called(ctx, tariff)
	return args.Error(0)
}

func (m *MockDatabase) ListMachines(ctx context.Context) ([]types.Machine, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		machines, _ := args.Get(0).([]types.Machine)
		return machines, args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) AddMachine(ctx context.Context, machine types.Machine) error {
	args := m.Called(ctx, machine)
	return args.Error(0)
}

func (m *MockDatabase) RemoveMachine(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
