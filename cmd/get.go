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

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read the current output voltage",
	Long: `Connect to the controller and read the current output voltage.

The connection handshake verifies the device identity and reads the
configured voltage limit, both of which are printed alongside the voltage.

Example usage:
  mdt694b get
  mdt694b get -p /dev/ttyUSB1
  mdt694b get --framing fixed`,
	Run: func(cmd *cobra.Command, args []string) {
		sim, _ := cmd.Flags().GetBool("sim")

		ctl, err := openController(cmd, sim)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer ctl.Close()

		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
		valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)

		id := ctl.Identity()
		fmt.Printf("%s %s\n", labelStyle.Render("Model:   "), id.Model)
		fmt.Printf("%s %s\n", labelStyle.Render("Firmware:"), id.Firmware)
		fmt.Printf("%s 0 - %dV\n", labelStyle.Render("Range:   "), ctl.VoltageLimit())
		fmt.Printf("%s %s\n", labelStyle.Render("Voltage: "), valueStyle.Render(fmt.Sprintf("%.2f V", ctl.LastVoltage())))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	simFlag(getCmd)
}
