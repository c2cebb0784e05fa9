package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"warehouse-grid/internal/warehouse/models"

	"github.com/google/uuid"
)

// ============================================================
// Warehouse Registry
// ============================================================

var ErrWarehouseNotFound = errors.New("warehouse not found")

// Registry хранит склады по UUID. Одна блокировка на весь реестр:
// каждая операция над складом выполняется целиком под ней.
type Registry struct {
	mu         sync.Mutex
	warehouses map[string]*Warehouse // id -> warehouse
	layout     models.Layout
}

func NewRegistry(layout models.Layout) *Registry {
	return &Registry{
		warehouses: make(map[string]*Warehouse),
		layout:     layout,
	}
}

func (r *Registry) Create(rows, columns int) (models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := NewWarehouse(uuid.NewString(), rows, columns, r.layout)
	if err != nil {
		return models.Snapshot{}, err
	}
	snapshot := w.Snapshot()
	r.warehouses[w.ID()] = w
	return snapshot, nil
}

// With выполняет fn над складом под блокировкой реестра.
func (r *Registry) With(id string, fn func(w *Warehouse) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.warehouses[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWarehouseNotFound, id)
	}
	return fn(w)
}

func (r *Registry) Get(id string) (models.Snapshot, error) {
	var snapshot models.Snapshot
	err := r.With(id, func(w *Warehouse) error {
		snapshot = w.Snapshot()
		return nil
	})
	return snapshot, err
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.warehouses[id]; !ok {
		return fmt.Errorf("%w: %s", ErrWarehouseNotFound, id)
	}
	delete(r.warehouses, id)
	return nil
}

func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.warehouses))
	for id := range r.warehouses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
