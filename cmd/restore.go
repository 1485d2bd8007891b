/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the controller to factory default settings",
	Long: `Restore all controller settings to their factory default values.

The connection handshake already performs a restore, so this command is
mostly useful to confirm the device acknowledges the reset correctly, or
to clear a configuration left by the front panel.`,
	Run: func(cmd *cobra.Command, args []string) {
		sim, _ := cmd.Flags().GetBool("sim")

		ctl, err := openController(cmd, sim)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer ctl.Close()

		if err := ctl.Restore(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
		fmt.Printf("%s All settings restored to default values\n", successStyle.Render("✓"))
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	simFlag(restoreCmd)
}
