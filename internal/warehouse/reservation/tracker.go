package reservation

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"warehouse-grid/internal/warehouse/models"
)

// ============================================================
// Reservation Tracker
// ============================================================

var ErrNotReserved = errors.New("cell not reserved")

// AnchorFactory вычисляет якорь для ячейки в момент резервирования.
type AnchorFactory func(cell models.Cell) models.Point

// Tracker хранит якоря только для ячеек в состоянии Reserved.
type Tracker struct {
	anchors map[models.Cell]models.Point
}

func NewTracker() *Tracker {
	return &Tracker{anchors: make(map[models.Cell]models.Point)}
}

// OnStatusChanged вызывается сразу после успешного Grid.SetStatus.
// Выход из Reserved удаляет запись безусловно, в какое бы состояние ни шла ячейка.
func (t *Tracker) OnStatusChanged(cell models.Cell, old, next models.Status, anchor AnchorFactory) {
	switch {
	case next == models.Reserved && old != models.Reserved:
		t.anchors[cell] = anchor(cell)
	case old == models.Reserved && next != models.Reserved:
		delete(t.anchors, cell)
	}
}

func (t *Tracker) AnchorOf(cell models.Cell) (models.Point, error) {
	anchor, ok := t.anchors[cell]
	if !ok {
		return models.Point{}, fmt.Errorf("%w: %s", ErrNotReserved, cell)
	}
	return anchor, nil
}

// All возвращает ленивую последовательность (ячейка, якорь). Порядок не гарантируется.
func (t *Tracker) All() iter.Seq2[models.Cell, models.Point] {
	return func(yield func(models.Cell, models.Point) bool) {
		for cell, anchor := range t.anchors {
			if !yield(cell, anchor) {
				return
			}
		}
	}
}

func (t *Tracker) Len() int {
	return len(t.anchors)
}

func (t *Tracker) Reset() {
	clear(t.anchors)
}

// Sorted возвращает резервы, упорядоченные по ячейке.
func (t *Tracker) Sorted() []models.Reservation {
	out := make([]models.Reservation, 0, len(t.anchors))
	for cell, anchor := range t.All() {
		out = append(out, models.Reservation{Cell: cell, Anchor: anchor})
	}
	slices.SortFunc(out, func(a, b models.Reservation) int {
		switch {
		case a.Cell.Less(b.Cell):
			return -1
		case b.Cell.Less(a.Cell):
			return 1
		}
		return 0
	})
	return out
}

// Routes строит по линии от dock к каждому якорю.
func (t *Tracker) Routes(dock models.Point) []models.Route {
	reservations := t.Sorted()
	routes := make([]models.Route, 0, len(reservations))
	for _, r := range reservations {
		routes = append(routes, models.Route{Cell: r.Cell, From: dock, To: r.Anchor})
	}
	return routes
}
