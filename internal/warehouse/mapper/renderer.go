package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/placement"
)

// ============================================================
// Renderer
// ============================================================

const (
	unitScale    = 100.0 // метры сцены -> единицы SVG (см)
	markerRadius = 0.15
	routeWidth   = 0.05
)

var statusFill = map[models.Status]string{
	models.Available: "#42cd62",
	models.Occupied:  "#ff7675",
	models.Reserved:  "#5040e0",
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает вид сверху на склад: стеллажи, маркеры резервов и линии от точки погрузки.
func (r *Renderer) Render(snapshot models.Snapshot) (string, error) {
	if snapshot.Rows < 0 || snapshot.Columns < 0 {
		return "", fmt.Errorf("invalid snapshot size %dx%d", snapshot.Rows, snapshot.Columns)
	}
	if len(snapshot.Cells) != snapshot.Rows {
		return "", fmt.Errorf("snapshot has %d rows, expected %d", len(snapshot.Cells), snapshot.Rows)
	}

	view := r.viewport(snapshot)

	var elements []string
	elements = append(elements, r.renderFloor(snapshot, view))
	elements = append(elements, r.renderShelves(snapshot, view)...)
	elements = append(elements, r.renderRoutes(snapshot, view)...)
	elements = append(elements, r.renderMarkers(snapshot, view)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(view.width), formatFloat(view.height), formatFloat(view.width), formatFloat(view.height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		if elem == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Viewport
// ============================================================

// viewport переводит координаты сцены (X, Z) в координаты SVG.
type viewport struct {
	minX, minZ    float64
	width, height float64
}

func (v viewport) project(p models.Point) (float64, float64) {
	return round((p.X - v.minX) * unitScale), round((p.Z - v.minZ) * unitScale)
}

func (r *Renderer) viewport(s models.Snapshot) viewport {
	width, depth := placement.Footprint(s.Rows, s.Columns, s.Layout)
	minX, maxX := -width/2, width/2
	minZ, maxZ := -depth/2, depth/2

	if s.Rows > 0 && s.Columns > 0 && len(s.Reservations) > 0 {
		dock := placement.Dock(s.Rows, s.Columns, s.Layout)
		minX, maxX = math.Min(minX, dock.X-markerRadius), math.Max(maxX, dock.X+markerRadius)
		minZ, maxZ = math.Min(minZ, dock.Z-markerRadius), math.Max(maxZ, dock.Z+markerRadius)
	}

	return viewport{
		minX:   minX,
		minZ:   minZ,
		width:  round((maxX - minX) * unitScale),
		height: round((maxZ - minZ) * unitScale),
	}
}

// ============================================================
// Elements
// ============================================================

func (r *Renderer) renderFloor(s models.Snapshot, v viewport) string {
	return fmt.Sprintf(`<rect id="floor" x="0" y="0" width="%s" height="%s" fill="#000" fill-opacity="0.5" />`,
		formatFloat(v.width), formatFloat(v.height))
}

func (r *Renderer) renderShelves(s models.Snapshot, v viewport) []string {
	half := s.Layout.ShelfSize / 2
	size := round(s.Layout.ShelfSize * unitScale)

	var out []string
	for row, statuses := range s.Cells {
		for column, status := range statuses {
			cell := models.Cell{Row: row, Column: column}
			center := placement.PlacementOf(cell, s.Rows, s.Columns, s.Layout)
			x, y := v.project(models.Point{X: center.X - half, Z: center.Z - half})
			out = append(out, fmt.Sprintf(`<rect id="shelf-%s" class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" />`,
				cell, status, formatFloat(x), formatFloat(y), formatFloat(size), formatFloat(size), statusFill[status]))
		}
	}
	return out
}

func (r *Renderer) renderRoutes(s models.Snapshot, v viewport) []string {
	if len(s.Reservations) == 0 {
		return nil
	}
	dock := placement.Dock(s.Rows, s.Columns, s.Layout)
	x1, y1 := v.project(dock)

	out := make([]string, 0, len(s.Reservations))
	for _, res := range s.Reservations {
		x2, y2 := v.project(res.Anchor)
		out = append(out, fmt.Sprintf(`<line id="route-%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="yellow" stroke-width="%s" />`,
			res.Cell, formatFloat(x1), formatFloat(y1), formatFloat(x2), formatFloat(y2), formatFloat(routeWidth*unitScale)))
	}
	return out
}

func (r *Renderer) renderMarkers(s models.Snapshot, v viewport) []string {
	out := make([]string, 0, len(s.Reservations))
	for _, res := range s.Reservations {
		cx, cy := v.project(res.Anchor)
		out = append(out, fmt.Sprintf(`<circle id="marker-%s" cx="%s" cy="%s" r="%s" fill="%s" />`,
			res.Cell, formatFloat(cx), formatFloat(cy), formatFloat(markerRadius*unitScale), statusFill[models.Reserved]))
	}
	return out
}

// ============================================================
// Helpers
// ============================================================

// round срезает шум плавающей точки (0.30000000000000004 и т.п.).
func round(val float64) float64 {
	return math.Round(val*1000) / 1000
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
