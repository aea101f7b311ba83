package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestLookup(t *testing.T) {
	a, err := Lookup("claude-code")
	require.NoError(t, err)
	assert.Equal(t, "mcpServers", a.Section)

	_, err = Lookup("emacs")
	assert.Error(t, err)

	assert.Equal(t, []string{"claude-code", "opencode"}, Keys())
}

func TestInstallKeepsExistingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","mcpServers":{"other":{"command":"x"}}}`), 0644))

	a, err := Lookup("claude-code")
	require.NoError(t, err)
	require.NoError(t, a.Install(path, "/usr/local/bin/barnsbot", []string{"mcp"}))

	config := readJSON(t, path)
	assert.Equal(t, "dark", config["theme"])

	servers := config["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other")
	assert.Equal(t, map[string]any{
		"command": "/usr/local/bin/barnsbot",
		"args":    []any{"mcp"},
	}, servers[ServerName])

	removed, err := a.Uninstall(path)
	require.NoError(t, err)
	assert.True(t, removed)

	servers = readJSON(t, path)["mcpServers"].(map[string]any)
	assert.NotContains(t, servers, ServerName)
	assert.Contains(t, servers, "other")
}

func TestInstallNewFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opencode", "opencode.json")

	a, err := Lookup("opencode")
	require.NoError(t, err)
	require.NoError(t, a.Install(path, "barnsbot", []string{"mcp", "--watch", "."}))

	config := readJSON(t, path)
	assert.Equal(t, "https://opencode.ai/config.json", config["$schema"])
	entry := config["mcp"].(map[string]any)[ServerName].(map[string]any)
	assert.Equal(t, "local", entry["type"])
	assert.Equal(t, []any{"barnsbot", "mcp", "--watch", "."}, entry["command"])
	assert.Equal(t, true, entry["enabled"])
}

func TestUninstallMissing(t *testing.T) {
	a, err := Lookup("claude-code")
	require.NoError(t, err)

	removed, err := a.Uninstall(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestInstallRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	a, err := Lookup("claude-code")
	require.NoError(t, err)
	assert.Error(t, a.Install(path, "barnsbot", []string{"mcp"}))
}
