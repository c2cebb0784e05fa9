package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Status
// ============================================================

// Status — состояние ячейки склада. У каждой ячейки ровно одно состояние.
type Status uint8

const (
	Available Status = iota
	Occupied
	Reserved
)

// ErrUnknownStatus возвращается для значений вне Available/Occupied/Reserved.
var ErrUnknownStatus = errors.New("unknown status")

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Occupied:
		return "occupied"
	case Reserved:
		return "reserved"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Valid сообщает, входит ли значение в перечисление.
func (s Status) Valid() bool {
	return s <= Reserved
}

// ParseStatus понимает как канонические метки, так и подписи из модального окна UI
// (disponível / ocupado / guardar).
func ParseStatus(label string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "available", "disponível", "disponivel":
		return Available, nil
	case "occupied", "ocupado":
		return Occupied, nil
	case "reserved", "guardar":
		return Reserved, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, label)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ============================================================
// Geometry primitives
// ============================================================

// Cell — координата ячейки. Сравнимое значение, используется как ключ map напрямую.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Column)
}

// Less задаёт построчный порядок ячеек.
func (c Cell) Less(other Cell) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Column < other.Column
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ============================================================
// Derived views
// ============================================================

type Counts struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
}

// Total — сумма всех состояний, всегда равна rows*columns.
func (c Counts) Total() int {
	return c.Available + c.Occupied + c.Reserved
}

type Reservation struct {
	Cell   Cell  `json:"cell"`
	Anchor Point `json:"anchor"`
}

// Route — линия от точки погрузки к маркеру резерва.
type Route struct {
	Cell Cell  `json:"cell"`
	From Point `json:"from"`
	To   Point `json:"to"`
}

type Layout struct {
	ShelfSize float64 `json:"shelf_size" yaml:"shelf_size"`
	Spacing   float64 `json:"spacing" yaml:"spacing"`
}

// Snapshot — плоское представление склада для слоя отрисовки.
type Snapshot struct {
	ID           string        `json:"id"`
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	Cells        [][]Status    `json:"cells"`
	Counts       Counts        `json:"counts"`
	Reservations []Reservation `json:"reservations"`
	Layout       Layout        `json:"layout"`
}

// ============================================================
// Journal
// ============================================================

const (
	KindStatus = "status"
	KindResize = "resize"
)

// Transition — запись журнала об изменении состояния склада.
// Для KindResize Row/Column содержат новые размеры.
type Transition struct {
	ID          int64  `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Kind        string `json:"kind"`
	Row         int    `json:"row"`
	Column      int    `json:"column"`
	Previous    string `json:"previous,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at"`
}
