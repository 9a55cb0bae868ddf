package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/voltsight/models"
)

// fakeBackend is an in-memory registry, prediction model and chat service.
type fakeBackend struct {
	mu           sync.Mutex
	vehicles     map[string][]models.Vehicle
	predictBody  string
	chatStatus   int
	chatContexts []json.RawMessage
	predictCalls int
}

func predictionBody(soh float64, anomaly bool) string {
	return fmt.Sprintf(`{"estimated_soc":71.5,"predicted_soh":%g,"risk_rating":"Low Risk","anomaly_warning":%t,`+
		`"resale_value_usd":21451.3,"material_composition":{"lithium_g":4100,"cobalt_g":2300,"iron_g":41000},`+
		`"latent_features":{"pred_charging_cycles":400,"pred_battery_temp":31.2}}`, soh, anomaly)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		vehicles:    map[string][]models.Vehicle{},
		predictBody: predictionBody(92.1, false),
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register_vehicle", func(w http.ResponseWriter, r *http.Request) {
		var v models.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for _, existing := range fb.vehicles[v.UserID] {
			if existing.VehicleID == v.VehicleID {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Vehicle already registered"})
				return
			}
		}
		fb.vehicles[v.UserID] = append(fb.vehicles[v.UserID], v)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle registered successfully"})
	})
	mux.HandleFunc("POST /update_vehicle", func(w http.ResponseWriter, r *http.Request) {
		var v models.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i, existing := range fb.vehicles[v.UserID] {
			if existing.VehicleID == v.VehicleID {
				fb.vehicles[v.UserID][i] = v
				writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle updated successfully"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Vehicle not found"})
	})
	mux.HandleFunc("GET /get_vehicles/{userId}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		list := fb.vehicles[r.PathValue("userId")]
		if list == nil {
			list = []models.Vehicle{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"vehicles": list})
	})
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.predictCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fb.predictBody))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query   string          `json:"query"`
			Context json.RawMessage `json:"context"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		fb.mu.Lock()
		fb.chatContexts = append(fb.chatContexts, req.Context)
		status := fb.chatStatus
		fb.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": "model offline"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"response": "echo: " + req.Query})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

// cliEnv is an isolated home, working directory and config file for running commands.
type cliEnv struct {
	t       *testing.T
	dir     string
	cfgPath string
}

func newCLIEnv(t *testing.T, baseURL string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfgPath := filepath.Join(dir, ".voltsight.yaml")
	cfg := fmt.Sprintf("api:\n  base_url: %s\nstorage:\n  backend: file\n  path: %s\n", baseURL, filepath.Join(dir, "data"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0600))

	errOut = &bytes.Buffer{}
	t.Cleanup(func() { errOut = os.Stderr })
	return &cliEnv{t: t, dir: dir, cfgPath: cfgPath}
}

// run executes the root command with args and returns its standard output.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	viper.Reset()
	bindPersistentFlags()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewBufferString(""))
	rootCmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
