/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/chat"
	"github.com/josephgoksu/voltsight/internal/config"
	"github.com/josephgoksu/voltsight/internal/logger"
	"github.com/josephgoksu/voltsight/internal/storage"
	"github.com/josephgoksu/voltsight/internal/ui"
)

// watcher is implemented by storage backends that see writes from other processes.
type watcher interface {
	Watch(ctx context.Context) (<-chan storage.Change, error)
}

// runDashboard starts the interactive dashboard.
func runDashboard(cmd *cobra.Command) error {
	if !ui.IsInteractive() {
		return errors.New("the dashboard needs a terminal; see `voltsight --help` for the non-interactive commands")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// The trace would corrupt the screen, so it goes to a file while the dashboard runs.
	if logger.Verbose() {
		path := config.TraceLogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open trace log: %w", err)
		}
		prev := logger.SetDebugOutput(f)
		defer func() {
			logger.SetDebugOutput(prev)
			_ = f.Close()
		}()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var changes <-chan storage.Change
	if w, ok := a.store.(watcher); ok {
		ch, err := w.Watch(ctx)
		switch {
		case err == nil:
			changes = ch
		case errors.Is(err, storage.ErrWatchUnsupported):
		default:
			LogError("watch local storage", err)
		}
	}

	logger.SetView(string(a.ctrl.Snapshot().View))
	model := ui.NewDashboardModel(ctx, a.ctrl, chat.NewPanel(a.chat), changes)
	return ui.RunDashboard(model)
}
