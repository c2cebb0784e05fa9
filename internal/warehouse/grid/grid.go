package grid

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"warehouse-grid/internal/warehouse/models"
)

// ============================================================
// Grid Model
// ============================================================

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrOutOfBounds       = errors.New("cell out of bounds")
)

// Grid — единственный источник истины о занятости ячеек.
// Счётчики не кэшируются: Counts каждый раз пересчитывает матрицу.
type Grid struct {
	rows    int
	columns int
	cells   []models.Status // row-major
}

// New создаёт сетку rows×columns, все ячейки Available.
func New(rows, columns int) (*Grid, error) {
	if rows < 0 || columns < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}
	if columns != 0 && rows > math.MaxInt/columns {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimensions, rows, columns)
	}
	return &Grid{
		rows:    rows,
		columns: columns,
		cells:   make([]models.Status, rows*columns),
	}, nil
}

func (g *Grid) Rows() int    { return g.rows }
func (g *Grid) Columns() int { return g.columns }

// Contains сообщает, лежит ли ячейка внутри сетки.
func (g *Grid) Contains(cell models.Cell) bool {
	return cell.Row >= 0 && cell.Row < g.rows &&
		cell.Column >= 0 && cell.Column < g.columns
}

func (g *Grid) index(cell models.Cell) (int, error) {
	if !g.Contains(cell) {
		return 0, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, cell, g.rows, g.columns)
	}
	return cell.Row*g.columns + cell.Column, nil
}

// SetStatus меняет состояние ячейки и возвращает предыдущее.
// При ошибке матрица не меняется.
func (g *Grid) SetStatus(cell models.Cell, status models.Status) (models.Status, error) {
	i, err := g.index(cell)
	if err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %d", models.ErrUnknownStatus, uint8(status))
	}
	previous := g.cells[i]
	g.cells[i] = status
	return previous, nil
}

func (g *Grid) Status(cell models.Cell) (models.Status, error) {
	i, err := g.index(cell)
	if err != nil {
		return 0, err
	}
	return g.cells[i], nil
}

func (g *Grid) Counts() models.Counts {
	var counts models.Counts
	for _, status := range g.cells {
		switch status {
		case models.Available:
			counts.Available++
		case models.Occupied:
			counts.Occupied++
		case models.Reserved:
			counts.Reserved++
		}
	}
	return counts
}

// Cells обходит ячейки построчно.
func (g *Grid) Cells() iter.Seq2[models.Cell, models.Status] {
	return func(yield func(models.Cell, models.Status) bool) {
		for i, status := range g.cells {
			cell := models.Cell{Row: i / g.columns, Column: i % g.columns}
			if !yield(cell, status) {
				return
			}
		}
	}
}

// Matrix возвращает копию состояний в виде rows×columns.
func (g *Grid) Matrix() [][]models.Status {
	matrix := make([][]models.Status, g.rows)
	for r := range matrix {
		row := make([]models.Status, g.columns)
		copy(row, g.cells[r*g.columns:(r+1)*g.columns])
		matrix[r] = row
	}
	return matrix
}
