package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ============================================================
// Warehouse Service
// ============================================================

var rootCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Warehouse grid service: occupancy, reservations and placement",
	// без подкоманды запускаем сервер
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, layoutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
