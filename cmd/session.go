/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"github.com/spf13/cobra"

	mdt694b "github.com/optomech/go-mdt694b"
	"github.com/optomech/go-mdt694b/internal/mdtsim"
)

// openController connects to the configured serial port, or to an in-memory
// simulated device when sim is true. The simulator lets every command run
// without hardware attached.
func openController(cmd *cobra.Command, sim bool, extra ...mdt694b.Option) (*mdt694b.Controller, error) {
	opts, err := driverOptions(cmd)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	if sim {
		return mdt694b.NewController(mdtsim.New(mdtsim.WithVoltageLimit(150)), opts...)
	}
	return mdt694b.Connect(portPath(), opts...)
}

// simFlag registers the --sim flag on commands that can run against the
// built-in simulated controller.
func simFlag(c *cobra.Command) {
	c.Flags().Bool("sim", false, "Run against a built-in simulated controller instead of hardware")
}
