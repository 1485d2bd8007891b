/*
Copyright © 2025 Optomech Instruments
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mdt694b "github.com/optomech/go-mdt694b"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdt694b",
	Short: "Control a Thorlabs MDT694B piezo controller",
	Long: `Command line tool for the Thorlabs MDT694B single-channel open-loop
piezo controller.

The controller is driven over its USB serial interface (115200 8N1). Every
connection starts with a factory reset and a strict identity check, so a
command either talks to a verified MDT694B or fails fast.

Configuration can be supplied via flags, the MDT694B_* environment
variables, or a config file at ~/.mdt694b.yaml. For example:

  export MDT694B_PORT=/dev/ttyUSB0
  mdt694b get
  mdt694b set 42.5`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("port", "p", "/dev/ttyUSB0", "Serial port the controller is attached to")
	rootCmd.PersistentFlags().String("framing", "delimiter", "Reply framing strategy: delimiter, fixed")
	rootCmd.PersistentFlags().Duration("read-timeout", 5*time.Second, "Serial read timeout")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")

	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("framing", rootCmd.PersistentFlags().Lookup("framing"))
	viper.BindPFlag("read_timeout", rootCmd.PersistentFlags().Lookup("read-timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mdt694b")
	}

	viper.SetEnvPrefix("mdt694b")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger whose level follows the --verbose count.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	level := zerolog.WarnLevel
	switch {
	case verbosity == 1:
		level = zerolog.DebugLevel
	case verbosity >= 2:
		level = zerolog.TraceLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// driverOptions translates the persistent flags and viper settings into
// driver options shared by every command that opens a controller.
func driverOptions(cmd *cobra.Command) ([]mdt694b.Option, error) {
	opts := []mdt694b.Option{
		mdt694b.WithLogger(newLogger(cmd)),
	}

	switch framing := strings.ToLower(viper.GetString("framing")); framing {
	case "", "delimiter", "delim":
		opts = append(opts, mdt694b.WithFraming(mdt694b.FramingDelimiter))
	case "fixed", "fixed-length":
		opts = append(opts, mdt694b.WithFraming(mdt694b.FramingFixedLength))
	default:
		return nil, fmt.Errorf("unknown framing %q (want delimiter or fixed)", framing)
	}

	if d := viper.GetDuration("read_timeout"); d > 0 {
		opts = append(opts, mdt694b.WithReadTimeout(d))
	}

	return opts, nil
}

// portPath returns the configured serial port.
func portPath() string {
	return viper.GetString("port")
}
