/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voltsight",
	Short: "voltsight - EV battery health dashboard",
	Long: `voltsight is a terminal dashboard for EV battery health.

Register your vehicles, run a health prediction from usage telemetry, compare
warranty plans derived from the result and ask the assistant about it.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(userMessage(err), err)
		stop()
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.voltsight.yaml or ./.voltsight/.voltsight.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringP("user", "u", "", "verify and use this user id instead of the stored one")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")

	bindPersistentFlags()

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
	}
}

// bindPersistentFlags binds the global flags to Viper keys of the same name.
func bindPersistentFlags() {
	for _, name := range []string{"config", "verbose", "user", "json"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// userMessage turns an error into the line shown without --verbose.
func userMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return "Error: " + se.Detail
	}
	return "Error: " + err.Error()
}
