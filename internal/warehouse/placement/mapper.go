package placement

import (
	"warehouse-grid/internal/warehouse/models"
)

// ============================================================
// Position Mapper
// ============================================================

const (
	DefaultShelfSize = 0.8
	DefaultSpacing   = 0.2
)

func DefaultLayout() models.Layout {
	return models.Layout{ShelfSize: DefaultShelfSize, Spacing: DefaultSpacing}
}

func pitch(layout models.Layout) float64 {
	return layout.ShelfSize + layout.Spacing
}

// PlacementOf переводит ячейку в координату сцены так, чтобы центр сетки
// совпадал с началом координат. Колонка идёт по X, строка по Z.
func PlacementOf(cell models.Cell, rows, columns int, layout models.Layout) models.Point {
	return models.Point{
		X: axis(cell.Column, columns, layout),
		Y: 0,
		Z: axis(cell.Row, rows, layout),
	}
}

func axis(index, count int, layout models.Layout) float64 {
	p := pitch(layout)
	// Смещение в полшага центрирует ряд на начале координат:
	// (index - count/2)*p + offset == (index - (count-1)/2)*p.
	// Смещение (count-1)*p*0.5 сдвигает ряд и ломает симметрию
	// PlacementOf(i) == -PlacementOf(count-1-i).
	offset := 0.5 * p
	return (float64(index)-float64(count)/2)*p + offset
}

// Footprint — размеры подложки под стеллажами (ширина по X, глубина по Z).
func Footprint(rows, columns int, layout models.Layout) (width, depth float64) {
	p := pitch(layout)
	return float64(columns)*p + layout.Spacing, float64(rows)*p + layout.Spacing
}

// Dock — точка погрузки: позиция на одну колонку правее последней ячейки последнего ряда.
func Dock(rows, columns int, layout models.Layout) models.Point {
	return PlacementOf(models.Cell{Row: rows - 1, Column: columns}, rows, columns, layout)
}
