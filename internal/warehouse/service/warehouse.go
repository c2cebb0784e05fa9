package service

import (
	"fmt"

	"warehouse-grid/internal/warehouse/grid"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/placement"
	"warehouse-grid/internal/warehouse/reservation"
)

// ============================================================
// Warehouse
// ============================================================

// Warehouse связывает сетку, трекер резервов и раскладку.
// Не потокобезопасен: владелец (Registry) сериализует доступ.
type Warehouse struct {
	id      string
	grid    *grid.Grid
	tracker *reservation.Tracker
	layout  models.Layout
}

func NewWarehouse(id string, rows, columns int, layout models.Layout) (*Warehouse, error) {
	g, err := grid.New(rows, columns)
	if err != nil {
		return nil, err
	}
	return &Warehouse{
		id:      id,
		grid:    g,
		tracker: reservation.NewTracker(),
		layout:  layout,
	}, nil
}

func (w *Warehouse) ID() string { return w.id }
func (w *Warehouse) Layout() models.Layout { return w.layout }
func (w *Warehouse) Rows() int { return w.grid.Rows() }
func (w *Warehouse) Columns() int { return w.grid.Columns() }
func (w *Warehouse) Counts() models.Counts { return w.grid.Counts() }
func (w *Warehouse) Grid() *grid.Grid { return w.grid }
func (w *Warehouse) Tracker() *reservation.Tracker { return w.tracker }

// Resize полностью заменяет сетку; прежние состояния и резервы отбрасываются.
func (w *Warehouse) Resize(rows, columns int) error {
	g, err := grid.New(rows, columns)
	if err != nil {
		return err
	}
	w.grid = g
	w.tracker.Reset()
	return nil
}

func (w *Warehouse) anchor(cell models.Cell) models.Point {
	return placement.PlacementOf(cell, w.grid.Rows(), w.grid.Columns(), w.layout)
}

// SetStatus — единственный путь изменения состояния ячейки.
func (w *Warehouse) SetStatus(cell models.Cell, status models.Status) (models.Status, error) {
	previous, err := w.grid.SetStatus(cell, status)
	if err != nil {
		return 0, err
	}
	w.tracker.OnStatusChanged(cell, previous, status, w.anchor)
	return previous, nil
}

// Toggle повторяет клик по стеллажу: свободный занимается,
// освобождённый занятый получает метку «guardar» (Reserved),
// повторный клик снимает метку и снова занимает стеллаж.
// Available → Occupied → Reserved → Occupied.
func (w *Warehouse) Toggle(cell models.Cell) (previous, current models.Status, err error) {
	previous, err = w.grid.Status(cell)
	if err != nil {
		return 0, 0, err
	}
	current = models.Occupied
	if previous == models.Occupied {
		current = models.Reserved
	}
	if _, err := w.SetStatus(cell, current); err != nil {
		return 0, 0, fmt.Errorf("toggle %s: %w", cell, err)
	}
	return previous, current, nil
}

func (w *Warehouse) Status(cell models.Cell) (models.Status, error) {
	return w.grid.Status(cell)
}

func (w *Warehouse) AnchorOf(cell models.Cell) (models.Point, error) {
	if _, err := w.grid.Status(cell); err != nil {
		return models.Point{}, err
	}
	return w.tracker.AnchorOf(cell)
}

func (w *Warehouse) Reservations() []models.Reservation {
	return w.tracker.Sorted()
}

// PlacementOf проверяет границы и отдаёт позицию ячейки в сцене.
func (w *Warehouse) PlacementOf(cell models.Cell) (models.Point, error) {
	if _, err := w.grid.Status(cell); err != nil {
		return models.Point{}, err
	}
	return w.anchor(cell), nil
}

func (w *Warehouse) Dock() models.Point {
	return placement.Dock(w.grid.Rows(), w.grid.Columns(), w.layout)
}

func (w *Warehouse) Routes() []models.Route {
	return w.tracker.Routes(w.Dock())
}

func (w *Warehouse) Snapshot() models.Snapshot {
	return models.Snapshot{
		ID:           w.id,
		Rows:         w.grid.Rows(),
		Columns:      w.grid.Columns(),
		Cells:        w.grid.Matrix(),
		Counts:       w.grid.Counts(),
		Reservations: w.tracker.Sorted(),
		Layout:       w.layout,
	}
}
