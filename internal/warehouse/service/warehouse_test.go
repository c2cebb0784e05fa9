package service

import (
	"math/rand"
	"testing"

	"warehouse-grid/internal/warehouse/grid"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/placement"
	"warehouse-grid/internal/warehouse/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWarehouse(t *testing.T, rows, columns int) *Warehouse {
	t.Helper()
	w, err := NewWarehouse("test", rows, columns, placement.DefaultLayout())
	require.NoError(t, err)
	return w
}

// reservedCells собирает ячейки в состоянии Reserved прямо из сетки.
func reservedCells(w *Warehouse) map[models.Cell]bool {
	out := map[models.Cell]bool{}
	for cell, status := range w.Grid().Cells() {
		if status == models.Reserved {
			out[cell] = true
		}
	}
	return out
}

func trackedCells(w *Warehouse) map[models.Cell]bool {
	out := map[models.Cell]bool{}
	for cell := range w.Tracker().All() {
		out[cell] = true
	}
	return out
}

func TestSetStatus_ReservationMirrorsGrid(t *testing.T) {
	w := newWarehouse(t, 4, 5)
	rng := rand.New(rand.NewSource(7))
	statuses := []models.Status{models.Available, models.Occupied, models.Reserved}

	for i := 0; i < 500; i++ {
		cell := models.Cell{Row: rng.Intn(4), Column: rng.Intn(5)}
		_, err := w.SetStatus(cell, statuses[rng.Intn(len(statuses))])
		require.NoError(t, err)

		assert.Equal(t, reservedCells(w), trackedCells(w), "step %d", i)
		assert.Equal(t, 20, w.Counts().Total())
		assert.Equal(t, w.Counts().Reserved, w.Tracker().Len())
	}
}

func TestScenario_ReserveThenOccupy(t *testing.T) {
	w := newWarehouse(t, 3, 3)
	cell := models.Cell{Row: 0, Column: 0}

	_, err := w.SetStatus(cell, models.Reserved)
	require.NoError(t, err)

	anchor, err := w.AnchorOf(cell)
	require.NoError(t, err)
	assert.Equal(t, placement.PlacementOf(cell, 3, 3, placement.DefaultLayout()), anchor)

	_, err = w.SetStatus(cell, models.Occupied)
	require.NoError(t, err)

	_, err = w.AnchorOf(cell)
	assert.ErrorIs(t, err, reservation.ErrNotReserved)
}

func TestSetStatus_OutOfBoundsTouchesNothing(t *testing.T) {
	w := newWarehouse(t, 3, 3)

	_, err := w.SetStatus(models.Cell{Row: 5, Column: 5}, models.Reserved)
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
	assert.Zero(t, w.Tracker().Len())
	assert.Equal(t, models.Counts{Available: 9}, w.Counts())
}

func TestAnchorOf_OutOfBounds(t *testing.T) {
	w := newWarehouse(t, 2, 2)

	_, err := w.AnchorOf(models.Cell{Row: 2})
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
}

func TestToggle(t *testing.T) {
	w := newWarehouse(t, 2, 2)
	cell := models.Cell{Row: 1, Column: 1}

	steps := []struct {
		prev, cur models.Status
		reserved  bool
	}{
		{models.Available, models.Occupied, false},
		{models.Occupied, models.Reserved, true},
		{models.Reserved, models.Occupied, false},
		{models.Occupied, models.Reserved, true},
	}
	for i, step := range steps {
		prev, cur, err := w.Toggle(cell)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.prev, prev, "step %d", i)
		assert.Equal(t, step.cur, cur, "step %d", i)

		anchor, err := w.AnchorOf(cell)
		if step.reserved {
			require.NoError(t, err, "step %d", i)
			assert.Equal(t, placement.PlacementOf(cell, 2, 2, w.Layout()), anchor)
		} else {
			assert.ErrorIs(t, err, reservation.ErrNotReserved, "step %d", i)
		}
		assert.Equal(t, reservedCells(w), trackedCells(w), "step %d", i)
	}

	// Available достижим только через SetStatus.
	_, err := w.SetStatus(cell, models.Available)
	require.NoError(t, err)
	assert.Zero(t, w.Tracker().Len())

	_, _, err = w.Toggle(models.Cell{Row: -1})
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
}

func TestResize_DiscardsState(t *testing.T) {
	w := newWarehouse(t, 3, 3)
	_, _ = w.SetStatus(models.Cell{}, models.Reserved)
	_, _ = w.SetStatus(models.Cell{Row: 1}, models.Occupied)

	require.NoError(t, w.Resize(2, 4))
	assert.Equal(t, models.Counts{Available: 8}, w.Counts())
	assert.Zero(t, w.Tracker().Len())
	assert.Equal(t, 2, w.Rows())
	assert.Equal(t, 4, w.Columns())
}

func TestResize_InvalidKeepsPrevious(t *testing.T) {
	w := newWarehouse(t, 3, 3)
	_, _ = w.SetStatus(models.Cell{}, models.Reserved)

	err := w.Resize(-1, 2)
	assert.ErrorIs(t, err, grid.ErrInvalidDimensions)
	assert.Equal(t, 3, w.Rows())
	assert.Equal(t, 1, w.Tracker().Len())
}

func TestSnapshot(t *testing.T) {
	w := newWarehouse(t, 2, 3)
	_, _ = w.SetStatus(models.Cell{Row: 1, Column: 2}, models.Reserved)
	_, _ = w.SetStatus(models.Cell{Row: 0, Column: 0}, models.Occupied)

	s := w.Snapshot()
	assert.Equal(t, "test", s.ID)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 3, s.Columns)
	assert.Equal(t, models.Counts{Available: 4, Occupied: 1, Reserved: 1}, s.Counts)
	assert.Equal(t, models.Reserved, s.Cells[1][2])
	assert.Equal(t, models.Occupied, s.Cells[0][0])
	require.Len(t, s.Reservations, 1)
	assert.Equal(t, models.Cell{Row: 1, Column: 2}, s.Reservations[0].Cell)
}

func TestRoutes_StartAtDock(t *testing.T) {
	w := newWarehouse(t, 3, 3)
	_, _ = w.SetStatus(models.Cell{Row: 2, Column: 2}, models.Reserved)

	routes := w.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, w.Dock(), routes[0].From)
	assert.Equal(t, placement.PlacementOf(models.Cell{Row: 2, Column: 2}, 3, 3, w.Layout()), routes[0].To)
}
