// Package install registers the barnsbot MCP server in AI agent config files.
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ServerName is the key barnsbot is registered under.
const ServerName = "barnsbot"

// Agent describes where and how an agent lists its MCP servers.
type Agent struct {
	// Key is the command-line name, e.g. "claude-code".
	Key string
	// Name is shown to the user.
	Name string
	// ConfigPath returns the agent's JSON config file.
	ConfigPath func() string
	// Section is the top-level object holding MCP servers.
	Section string
	// Entry builds the server entry for a command line.
	Entry func(command string, args []string) map[string]any
	// Defaults are set on a config file that does not exist yet.
	Defaults map[string]any
}

var agents = map[string]Agent{
	"claude-code": {
		Key:  "claude-code",
		Name: "Claude Code",
		ConfigPath: func() string {
			home, _ := os.UserHomeDir()
			return filepath.Join(home, ".claude.json")
		},
		Section: "mcpServers",
		Entry: func(command string, args []string) map[string]any {
			return map[string]any{"command": command, "args": args}
		},
	},
	"opencode": {
		Key:  "opencode",
		Name: "OpenCode",
		ConfigPath: func() string {
			home, _ := os.UserHomeDir()
			dir := filepath.Join(home, ".config", "opencode")
			if jsonc := filepath.Join(dir, "opencode.jsonc"); fileExists(jsonc) {
				return jsonc
			}
			return filepath.Join(dir, "opencode.json")
		},
		Section: "mcp",
		Entry: func(command string, args []string) map[string]any {
			return map[string]any{
				"type":    "local",
				"command": append([]string{command}, args...),
				"enabled": true,
			}
		},
		Defaults: map[string]any{"$schema": "https://opencode.ai/config.json"},
	},
}

// Lookup returns the agent registered under key.
func Lookup(key string) (Agent, error) {
	a, ok := agents[key]
	if !ok {
		return Agent{}, fmt.Errorf("unknown agent %q (supported: %v)", key, Keys())
	}
	return a, nil
}

// Keys lists the supported agents.
func Keys() []string {
	keys := make([]string, 0, len(agents))
	for k := range agents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Install adds the barnsbot server to the agent config at path, keeping
// every other setting.
func (a Agent) Install(path, command string, args []string) error {
	config, err := readConfig(path)
	if err != nil {
		return err
	}
	if config == nil {
		config = make(map[string]any)
		for k, v := range a.Defaults {
			config[k] = v
		}
	}

	servers, ok := config[a.Section].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	servers[ServerName] = a.Entry(command, args)
	config[a.Section] = servers

	return writeConfig(path, config)
}

// Uninstall removes the barnsbot server. A missing config file is not an error.
func (a Agent) Uninstall(path string) (bool, error) {
	config, err := readConfig(path)
	if err != nil || config == nil {
		return false, err
	}

	servers, ok := config[a.Section].(map[string]any)
	if !ok {
		return false, nil
	}
	if _, ok := servers[ServerName]; !ok {
		return false, nil
	}
	delete(servers, ServerName)
	config[a.Section] = servers

	return true, writeConfig(path, config)
}

func readConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := make(map[string]any)
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse existing config: %w", err)
	}
	return config, nil
}

func writeConfig(path string, config map[string]any) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
