/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/voltsight/internal/api"
	"github.com/josephgoksu/voltsight/internal/config"
	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/internal/session"
	"github.com/josephgoksu/voltsight/internal/storage"
	"github.com/josephgoksu/voltsight/internal/ui"
	"github.com/josephgoksu/voltsight/types"
)

// errNoSession is returned by commands that need a verified user.
var errNoSession = errors.New("no user verified; run `voltsight login <user-id>` or pass --user")

func isJSON() bool {
	return viper.GetBool("json")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// styles returns the theme chosen by ui.dark_mode.
func styles() ui.Styles {
	return ui.ThemeFor(viper.GetBool("ui.dark_mode")).Styles()
}

// app is one wired instance of the dashboard: storage, backend clients and controller.
type app struct {
	cfg       types.AppConfig
	store     storage.LocalStorage
	registry  *api.RegistryClient
	predictor *api.PredictionClient
	chat      *api.ChatClient
	ctrl      *dashboard.Controller
}

// openApp builds an app from the loaded configuration.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dir := cfg.Storage.Path
	if dir == "" {
		dir = config.GetDataDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	ls, err := storage.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	apiCfg := config.APIClientConfig(cfg)
	registry, err := api.NewRegistryClient(apiCfg)
	if err != nil {
		_ = ls.Close()
		return nil, err
	}
	predictor, err := api.NewPredictionClient(apiCfg)
	if err != nil {
		_ = ls.Close()
		return nil, err
	}
	chatClient, err := api.NewChatClient(apiCfg)
	if err != nil {
		_ = ls.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		store:     ls,
		registry:  registry,
		predictor: predictor,
		chat:      chatClient,
		ctrl:      dashboard.New(registry, predictor, session.NewStore(ls), preferences(cfg)),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// preferences maps the config onto the dashboard's initial settings.
func preferences(cfg types.AppConfig) dashboard.Preferences {
	return dashboard.Preferences{
		DarkMode:        cfg.UI.DarkMode,
		SidebarOpen:     cfg.UI.SidebarOpen,
		TotalDistanceKm: strconv.FormatFloat(cfg.Telemetry.TotalDistanceKm, 'f', -1, 64),
		ChargingTimeMin: strconv.FormatFloat(cfg.Telemetry.ChargingTimeMin, 'f', -1, 64),
	}
}

// verifySession verifies --user when given, otherwise resumes the stored session.
func (a *app) verifySession(ctx context.Context) error {
	if user := strings.TrimSpace(viper.GetString("user")); user != "" {
		return a.ctrl.Verify(ctx, user)
	}
	if err := a.ctrl.Resume(ctx); err != nil {
		return err
	}
	if !a.ctrl.Snapshot().Verified() {
		return errNoSession
	}
	return nil
}

// selectVehicle verifies the session and selects vehicleID.
func (a *app) selectVehicle(ctx context.Context, vehicleID string) error {
	if err := a.verifySession(ctx); err != nil {
		return err
	}
	return a.ctrl.SelectVehicle(vehicleID)
}

// withSpinner runs fn while a spinner is shown on interactive stderr.
func withSpinner(cmd *cobra.Command, label string, fn func() error) error {
	if isJSON() || !ui.IsInteractive() {
		return fn()
	}
	s := ui.NewSpinner(cmd.ErrOrStderr(), label)
	s.Start()
	defer s.Stop()
	return fn()
}

func confirmOrAbort(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Fprintln(out, "Cancelled.")
		return false
	}
	return true
}
