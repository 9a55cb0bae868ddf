/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/voltsight/internal/config"
	"github.com/josephgoksu/voltsight/internal/ui"
)

// configFs is the filesystem `config set` writes to.
var configFs = afero.NewOsFs()

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change voltsight settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

// configShowCmd shows current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file in use (or ~/.voltsight.yaml).

Example:
  voltsight config set api.base_url http://10.0.0.5:8000
  voltsight config set ui.dark_mode true`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.WritableKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command) error {
	settings := make(map[string]any, len(config.WritableKeys))
	for _, key := range config.WritableKeys {
		settings[key] = viper.Get(key)
	}
	path, _ := config.ConfigFilePath()

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"config_file": path,
			"data_dir":    config.GetDataDir(),
			"settings":    settings,
		})
	}

	st := styles()
	t := &ui.Table{Headers: []string{"Key", "Value"}, Styles: &st}
	for _, key := range config.WritableKeys {
		t.Rows = append(t.Rows, []string{key, fmt.Sprint(settings[key])})
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, t.Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.Subtle.Render("Config file: "+path))
	fmt.Fprintln(out, st.Subtle.Render("Data dir:    "+config.GetDataDir()))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	if err := config.SetValue(configFs, path, key, value); err != nil {
		return err
	}
	viper.Set(key, value)
	if _, err := config.LoadAppConfig(); err != nil {
		PrintError("Warning: the saved value does not validate: "+err.Error(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", styles().Success.Render("✓"), key, value, path)
	return nil
}
