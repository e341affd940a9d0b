package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

var (
	// ErrMachineNotFound is returned by RemoveMachine when no machine has the
	// given id.
	ErrMachineNotFound = errors.New("machine not found")
	// ErrMachineExists is returned by AddMachine when a machine with the same
	// id is already stored.
	ErrMachineExists = errors.New("machine already exists")
)

// errEmptyID is returned by every provider when a machine id is empty.
var errEmptyID = fmt.Errorf("%w: machine id cannot be empty", types.ErrInvalidInput)

// Database holds the workshop's machine list and its tariff.
type Database interface {
	// Tariff
	// GetTariff returns types.DefaultTariff if no tariff has been set.
	GetTariff(ctx context.Context) (types.Tariff, error)
	SetTariff(ctx context.Context, tariff types.Tariff) error

	// Machines
	// ListMachines returns machines in the order they were added.
	ListMachines(ctx context.Context) ([]types.Machine, error)
	AddMachine(ctx context.Context, machine types.Machine) error
	RemoveMachine(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "memory", "Storage provider to use (available: memory, firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "memory":
			p.Database = NewMemory()
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
