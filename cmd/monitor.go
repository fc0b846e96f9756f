/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/allbin/linktest/internal/tui"
	"github.com/allbin/linktest/serial"
)

var monitorInterval time.Duration

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <port>",
	Short: "Watch modem signals in real-time",
	Long: `Watch the modem control signals of a port in a live table.

Each refresh samples the modem-status register directly, so the display
follows the electrical line states as a cable or partner device toggles
them. Useful for checking wiring by hand before running the full suite.

Examples:
  linktest monitor /dev/ttyUSB0
  linktest monitor /dev/ttyUSB0 --interval 50ms

Press q or Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		portPath := args[0]

		port, err := serial.Open(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()

		model := tui.NewMonitor(serial.FixStatusLines(port), portPath, monitorInterval)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running monitor: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", 100*time.Millisecond,
		"Refresh interval for signal sampling")
}
