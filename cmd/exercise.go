/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mdt694b "github.com/optomech/go-mdt694b"
)

// exerciseCmd represents the exercise command
var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Run a movement exercise across the voltage range",
	Long: `Sweep the actuator through a sequence of setpoints across the full
voltage range, reporting the settle time of each move, then demonstrate a
deferred move that overlaps motion with other work.

This is useful as a smoke test of a newly connected controller and as a
way to warm up a piezo stack after a long time powered off.

Example usage:
  mdt694b exercise
  mdt694b exercise --sim
  mdt694b exercise --poll-interval 100ms`,
	Run: func(cmd *cobra.Command, args []string) {
		sim, _ := cmd.Flags().GetBool("sim")
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")

		ctl, err := openController(cmd, sim, mdt694b.WithPollInterval(pollInterval))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer ctl.Close()

		infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)

		id := ctl.Identity()
		fmt.Printf("%s %s, %s, range 0-%dV\n",
			infoStyle.Render("⚡"), id.Model, id.Firmware, ctl.VoltageLimit())

		// Quarter-range sweep up and back down.
		limit := float64(ctl.VoltageLimit())
		setpoints := []float64{
			limit / 4, limit / 2, 3 * limit / 4, limit,
			3 * limit / 4, limit / 2, limit / 4, 0,
		}

		for _, target := range setpoints {
			start := time.Now()
			if err := ctl.SetVoltage(target); err != nil {
				fmt.Fprintf(os.Stderr, "Error moving to %.2f V: %v\n", target, err)
				os.Exit(1)
			}
			fmt.Printf("%s moved to %6.2f V (settled in %s)\n",
				successStyle.Render("✓"), ctl.LastVoltage(), time.Since(start).Round(time.Millisecond))
		}

		// Deferred move: fire the command, do other work, then collect.
		fmt.Printf("%s deferred move to %.2f V...\n", infoStyle.Render("⚡"), limit/2)
		if err := ctl.SetVoltageDeferred(limit / 2); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("  (actuator moving while we do other work)")
		v, err := ctl.FinishMove()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s deferred move settled at %.2f V\n", successStyle.Render("✓"), v)

		// Superseding: a second command resolves the outstanding move first.
		fmt.Printf("%s superseding a deferred move (%.2f V then %.2f V)...\n",
			infoStyle.Render("⚡"), limit/4, 3*limit/4)
		if err := ctl.SetVoltageDeferred(limit / 4); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := ctl.SetVoltage(3 * limit / 4); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s superseded move settled at %.2f V\n", successStyle.Render("✓"), ctl.LastVoltage())

		// Random walk across the range.
		moves, _ := cmd.Flags().GetInt("random-moves")
		if moves > 0 {
			fmt.Printf("%s random walk, %d moves...\n", infoStyle.Render("⚡"), moves)
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			for i := 0; i < moves; i++ {
				target := rng.Float64() * limit
				start := time.Now()
				if err := ctl.SetVoltage(target); err != nil {
					fmt.Fprintf(os.Stderr, "Error moving to %.2f V: %v\n", target, err)
					os.Exit(1)
				}
				fmt.Printf("%s moved to %6.2f V (settled in %s)\n",
					successStyle.Render("✓"), ctl.LastVoltage(), time.Since(start).Round(time.Millisecond))
			}
		}

		if err := ctl.SetVoltage(0); err != nil {
			fmt.Fprintf(os.Stderr, "Error returning to 0 V: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s exercise complete, output back at %.2f V\n", successStyle.Render("✓"), ctl.LastVoltage())
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	simFlag(exerciseCmd)

	exerciseCmd.Flags().Duration("poll-interval", 200*time.Millisecond, "Wait between settle-detection readings")
	exerciseCmd.Flags().Int("random-moves", 5, "Number of random-walk moves after the sweep (0 disables)")
}
