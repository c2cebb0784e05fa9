package service

import (
	"errors"
	"sync"
	"testing"

	"warehouse-grid/internal/warehouse/grid"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/placement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(placement.DefaultLayout())

	snapshot, err := r.Create(2, 2)
	require.NoError(t, err)
	_, err = uuid.Parse(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{Available: 4}, snapshot.Counts)

	got, err := r.Get(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
	assert.Equal(t, []string{snapshot.ID}, r.List())

	require.NoError(t, r.Delete(snapshot.ID))
	_, err = r.Get(snapshot.ID)
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
	assert.ErrorIs(t, r.Delete(snapshot.ID), ErrWarehouseNotFound)
}

func TestRegistry_CreateInvalid(t *testing.T) {
	r := NewRegistry(placement.DefaultLayout())

	_, err := r.Create(-1, 3)
	assert.ErrorIs(t, err, grid.ErrInvalidDimensions)
	assert.Empty(t, r.List())

	_, err = r.Create(1<<32, 1<<32)
	assert.ErrorIs(t, err, grid.ErrInvalidDimensions)
	assert.Empty(t, r.List())
}

func TestRegistry_WithPropagatesError(t *testing.T) {
	r := NewRegistry(placement.DefaultLayout())
	snapshot, _ := r.Create(1, 1)
	boom := errors.New("boom")

	err := r.With(snapshot.ID, func(*Warehouse) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = r.With("missing", func(*Warehouse) error { return nil })
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	r := NewRegistry(placement.DefaultLayout())
	snapshot, _ := r.Create(10, 10)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cell := models.Cell{Row: i / 10, Column: i % 10}
			_ = r.With(snapshot.ID, func(w *Warehouse) error {
				_, err := w.SetStatus(cell, models.Reserved)
				return err
			})
		}(i)
	}
	wg.Wait()

	got, err := r.Get(snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{Reserved: 100}, got.Counts)
	assert.Len(t, got.Reservations, 100)
}
