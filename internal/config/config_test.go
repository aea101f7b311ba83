package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate resets global state and clears the variables Load reads.
func isolate(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfg = nil
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "VECTOR_STORE_ID", "PORT",
		"BARNSBOT_OPENAI_API_KEY", "BARNSBOT_STORE_ID", "BARNSBOT_SERVER_PORT",
		"BARNSBOT_OPENAI_MODEL",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultMaxFiles, cfg.Server.MaxFiles)
	assert.Equal(t, DefaultUploadDir, cfg.Server.UploadDir)
	assert.Equal(t, DefaultBodyLimit, cfg.Server.BodyLimit)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Empty(t, cfg.OpenAI.APIKey)

	assert.Equal(t, ".vector_store_id", cfg.Store.IDFile)
	assert.Equal(t, DefaultStoreName, cfg.Store.Name)
	assert.Empty(t, cfg.Store.ID)

	assert.Contains(t, cfg.Ingest.Ignore, ".git/")
	assert.Contains(t, cfg.Ingest.Ignore, "node_modules/")
}

func TestDefaultIgnorePatternsKeepDocuments(t *testing.T) {
	patterns := DefaultIgnorePatterns()

	assert.Contains(t, patterns, DefaultStoreIDFile)
	for _, p := range patterns {
		assert.NotEqual(t, "*.pdf", p)
		assert.NotEqual(t, "*.docx", p)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	isolate(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
server:
  port: 8081
  max_files: 10
  upload_dir: /tmp/barnsbot-uploads
openai:
  model: gpt-4o
  base_url: https://proxy.example.com/v1
store:
  id_file: /var/lib/barnsbot/store
  name: handbook
llm:
  max_results: 8
ingest:
  ignore:
    - "drafts/"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	require.NoError(t, Load(configPath))
	loaded := Get()

	assert.Equal(t, 8081, loaded.Server.Port)
	assert.Equal(t, 10, loaded.Server.MaxFiles)
	assert.Equal(t, "/tmp/barnsbot-uploads", loaded.Server.UploadDir)
	assert.Equal(t, "gpt-4o", loaded.OpenAI.Model)
	assert.Equal(t, "https://proxy.example.com/v1", loaded.OpenAI.BaseURL)
	assert.Equal(t, "/var/lib/barnsbot/store", loaded.Store.IDFile)
	assert.Equal(t, "handbook", loaded.Store.Name)
	assert.Equal(t, 8, loaded.LLM.MaxResults)
	assert.Equal(t, []string{"drafts/"}, loaded.Ingest.Ignore)
	assert.Equal(t, configPath, ConfigFilePath())
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	isolate(t)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VECTOR_STORE_ID", "  vs_env  ")
	t.Setenv("PORT", "8080")
	t.Setenv("BARNSBOT_OPENAI_MODEL", "gpt-4.1-mini")

	require.NoError(t, Load(""))
	loaded := Get()

	assert.Equal(t, "sk-test", loaded.OpenAI.APIKey)
	assert.Equal(t, "vs_env", loaded.Store.ID)
	assert.Equal(t, 8080, loaded.Server.Port)
	assert.Equal(t, "gpt-4.1-mini", loaded.OpenAI.Model)
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	isolate(t)

	t.Setenv("PORT", "8080")
	t.Setenv("BARNSBOT_SERVER_PORT", "9090")

	require.NoError(t, Load(""))
	assert.Equal(t, 9090, Get().Server.Port)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)

	// godotenv never overrides a variable that exists, even when empty
	require.NoError(t, os.Unsetenv("VECTOR_STORE_ID"))
	require.NoError(t, os.WriteFile(".env", []byte("VECTOR_STORE_ID=vs_dotenv\n"), 0644))

	require.NoError(t, Load(""))
	assert.Equal(t, "vs_dotenv", Get().Store.ID)
}

func TestLoadMissingConfigFile(t *testing.T) {
	isolate(t)

	require.NoError(t, Load(""))
	loaded := Get()

	assert.Equal(t, DefaultPort, loaded.Server.Port)
	assert.Equal(t, DefaultModel, loaded.OpenAI.Model)
	assert.Equal(t, DefaultStoreIDFile, loaded.Store.IDFile)
}

func TestLoadFindsRCFile(t *testing.T) {
	isolate(t)

	root, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".barnsbotrc.yaml"), []byte("store:\n  name: from-rc\n"), 0644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	require.NoError(t, Load(""))
	assert.Equal(t, "from-rc", Get().Store.Name)
}

func TestValidate(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := DefaultConfig()
		assert.ErrorIs(t, c.Validate(), ErrMissingAPIKey)
	})

	t.Run("blank key", func(t *testing.T) {
		c := DefaultConfig()
		c.OpenAI.APIKey = "   "
		assert.ErrorIs(t, c.Validate(), ErrMissingAPIKey)
	})

	t.Run("bad max files", func(t *testing.T) {
		c := DefaultConfig()
		c.OpenAI.APIKey = "sk-test"
		c.Server.MaxFiles = 0
		assert.Error(t, c.Validate())
	})

	t.Run("ok", func(t *testing.T) {
		c := DefaultConfig()
		c.OpenAI.APIKey = "sk-test"
		assert.NoError(t, c.Validate())
	})
}

func TestGet(t *testing.T) {
	cfg = nil

	c1 := Get()
	assert.NotNil(t, c1)

	c2 := Get()
	assert.Same(t, c1, c2)
}

func TestGlobalConfigPath(t *testing.T) {
	path := GlobalConfigPath()
	assert.Contains(t, path, "barnsbot")
	assert.Contains(t, path, "config.yaml")
}
