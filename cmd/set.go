/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mdt694b "github.com/optomech/go-mdt694b"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <voltage>",
	Short: "Set the output voltage",
	Long: `Command the controller to a new output voltage and wait for the
actuator to settle.

Settling is detected by polling the output until two consecutive readings
agree. Use --nowait to fire the move and return immediately; the voltage
printed then is the commanded target, not a settled reading.

Example usage:
  mdt694b set 42.5
  mdt694b set 0 --nowait
  mdt694b set 75 --poll-interval 100ms --settle-budget 10s`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid voltage %q: %v\n", args[0], err)
			os.Exit(1)
		}

		sim, _ := cmd.Flags().GetBool("sim")
		nowait, _ := cmd.Flags().GetBool("nowait")
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
		settleBudget, _ := cmd.Flags().GetDuration("settle-budget")

		ctl, err := openController(cmd, sim,
			mdt694b.WithPollInterval(pollInterval),
			mdt694b.WithSettleBudget(settleBudget),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer ctl.Close()

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

		if nowait {
			if err := ctl.SetVoltageDeferred(target); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("✗"), err)
				os.Exit(1)
			}
			fmt.Printf("%s Move to %.2f V commanded (not waiting for settle)\n", successStyle.Render("✓"), target)
			return
		}

		start := time.Now()
		if err := ctl.SetVoltage(target); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("✗"), err)
			if errors.Is(err, mdt694b.ErrSettleTimeout) {
				fmt.Fprintln(os.Stderr, "The actuator is still moving; increase --settle-budget or retry")
			}
			os.Exit(1)
		}

		fmt.Printf("%s Settled at %.2f V in %s\n",
			successStyle.Render("✓"), ctl.LastVoltage(), time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	simFlag(setCmd)

	setCmd.Flags().Bool("nowait", false, "Return immediately without waiting for the actuator to settle")
	setCmd.Flags().Duration("poll-interval", 200*time.Millisecond, "Wait between settle-detection readings")
	setCmd.Flags().Duration("settle-budget", 30*time.Second, "Total time allowed for the move to settle (0 = unbounded)")
}
