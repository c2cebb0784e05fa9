package main

import (
	"fmt"
	"text/tabwriter"

	"warehouse-grid/internal/warehouse/grid"
	"warehouse-grid/internal/warehouse/models"
	"warehouse-grid/internal/warehouse/placement"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print scene placement for every cell of a rows x columns grid",
	RunE:  runLayout,
}

var layoutFlags struct {
	rows      int
	columns   int
	shelfSize float64
	spacing   float64
}

func init() {
	layoutCmd.Flags().IntVar(&layoutFlags.rows, "rows", 3, "number of rows")
	layoutCmd.Flags().IntVar(&layoutFlags.columns, "columns", 3, "number of columns")
	layoutCmd.Flags().Float64Var(&layoutFlags.shelfSize, "shelf-size", placement.DefaultShelfSize, "shelf edge length")
	layoutCmd.Flags().Float64Var(&layoutFlags.spacing, "spacing", placement.DefaultSpacing, "gap between shelves")
}

func runLayout(cmd *cobra.Command, args []string) error {
	g, err := grid.New(layoutFlags.rows, layoutFlags.columns)
	if err != nil {
		return err
	}
	layout := models.Layout{ShelfSize: layoutFlags.shelfSize, Spacing: layoutFlags.spacing}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CELL\tX\tY\tZ")
	for cell := range g.Cells() {
		p := placement.PlacementOf(cell, g.Rows(), g.Columns(), layout)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\n", cell, p.X, p.Y, p.Z)
	}

	width, depth := placement.Footprint(g.Rows(), g.Columns(), layout)
	dock := placement.Dock(g.Rows(), g.Columns(), layout)
	fmt.Fprintf(w, "\nfootprint\t%.3f x %.3f\n", width, depth)
	fmt.Fprintf(w, "dock\t%.3f\t%.3f\t%.3f\n", dock.X, dock.Y, dock.Z)
	return w.Flush()
}
