package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/voltsight/internal/api"
)

func TestRootCmd(t *testing.T) {
	env := newCLIEnv(t, "http://localhost:8000")

	out, err := env.run("--help")
	require.NoError(t, err)

	assert.Contains(t, out, "terminal dashboard for EV battery health")
	assert.Contains(t, out, "Usage:")
	for _, sub := range []string{"login", "vehicles", "register", "update", "predict", "plans", "chat", "report", "logout", "version", "config"} {
		assert.Contains(t, out, sub)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", GetVersion())

	env := newCLIEnv(t, "http://localhost:8000")
	out, err := env.run("version", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "0.1.0", got["version"])
}

func TestUserMessage(t *testing.T) {
	err := &api.StatusError{Method: "POST", Path: "/register_vehicle", StatusCode: 400, Detail: "Vehicle already registered"}
	assert.Equal(t, "Error: Vehicle already registered", userMessage(err))
	assert.Equal(t, "Error: "+errNoSession.Error(), userMessage(errNoSession))
}

func TestInvalidConfigIsReported(t *testing.T) {
	env := newCLIEnv(t, "not a url")

	_, err := env.run("vehicles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url must be a URL")
}
