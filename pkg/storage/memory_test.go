package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/smartworkshop/workshopcost/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("Default Tariff", func(t *testing.T) {
		tariff, err := m.GetTariff(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.DefaultTariff(), tariff)
	})

	t.Run("Set Tariff", func(t *testing.T) {
		want := types.Tariff{PeakRate: 0.3, OffPeakRate: 0.1}
		require.NoError(t, m.SetTariff(ctx, want))
		got, err := m.GetTariff(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Machines keep insertion order", func(t *testing.T) {
		list, err := m.ListMachines(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, m.AddMachine(ctx, types.Machine{ID: id, Name: "machine " + id}))
		}
		list, err = m.ListMachines(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "c", list[0].ID)
		assert.Equal(t, "a", list[1].ID)
		assert.Equal(t, "b", list[2].ID)
	})

	t.Run("List returns a copy", func(t *testing.T) {
		list, err := m.ListMachines(ctx)
		require.NoError(t, err)
		list[0].Name = "changed"

		list, err = m.ListMachines(ctx)
		require.NoError(t, err)
		assert.Equal(t, "machine c", list[0].Name)
	})

	t.Run("Duplicate ID", func(t *testing.T) {
		err := m.AddMachine(ctx, types.Machine{ID: "a"})
		assert.ErrorIs(t, err, ErrMachineExists)
	})

	t.Run("Empty ID", func(t *testing.T) {
		err := m.AddMachine(ctx, types.Machine{})
		assert.ErrorIs(t, err, types.ErrInvalidInput)

		err = m.RemoveMachine(ctx, "")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.NotErrorIs(t, err, ErrMachineNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, m.RemoveMachine(ctx, "a"))
		list, err := m.ListMachines(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "c", list[0].ID)
		assert.Equal(t, "b", list[1].ID)

		err = m.RemoveMachine(ctx, "a")
		assert.ErrorIs(t, err, ErrMachineNotFound)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, m.Close())
		_, err := m.ListMachines(ctx)
		assert.Error(t, err)
		_, err = m.GetTariff(ctx)
		assert.Error(t, err)
	})
}

func TestMemoryConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.AddMachine(ctx, types.Machine{ID: fmt.Sprintf("m%d", i)}))
		}(i)
	}
	wg.Wait()

	list, err := m.ListMachines(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
