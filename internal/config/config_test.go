package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cnpj-tools.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWithFile_DefaultsApply(t *testing.T) {
	path := writeConfigFile(t, `{
		"generate": {
			"output": {"prefix": "out/cnpjs"}
		}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "random", cfg.Generate.Strategy)
	assert.Equal(t, uint64(1000), cfg.Generate.Count)
	assert.Equal(t, "out/cnpjs", cfg.Generate.Output.Prefix)
	assert.Equal(t, uint64(10_000), cfg.Generate.Output.ProgressEvery)

	assert.Equal(t, "biz", cfg.Check.Provider)
	assert.Equal(t, 4, cfg.Check.Workers)
	assert.Equal(t, 3, cfg.Check.MaxRetries)
	assert.Equal(t, "15s", cfg.Check.Timeout)
	assert.False(t, cfg.Status.Enabled())
	assert.False(t, cfg.Notify.Telegram.Enabled())
}

func TestLoadWithFile_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"debug": true,
		"generate": {
			"strategy": "sequential",
			"count": 0,
			"sequential": {"start": 100, "end": 200, "step": 2},
			"output": {"prefix": "sweep", "chunk_size": 50, "masked": true}
		},
		"check": {"workers": 8, "provider": "api"}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "sequential", cfg.Generate.Strategy)
	assert.Zero(t, cfg.Generate.Count, "0 drains the whole sweep")
	assert.Equal(t, uint64(2), cfg.Generate.Sequential.Step)
	assert.Equal(t, uint64(50), cfg.Generate.Output.ChunkSize)
	assert.True(t, cfg.Generate.Output.Masked)
	assert.Equal(t, 8, cfg.Check.Workers)
	assert.Equal(t, "api", cfg.Check.Provider)
}

func TestLoadWithFile_EnvironmentWins(t *testing.T) {
	t.Setenv("CNPJ_GENERATE__COUNT", "42")
	t.Setenv("CNPJ_DEBUG", "true")

	path := writeConfigFile(t, `{
		"generate": {"count": 7, "output": {"prefix": "cnpjs"}}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Generate.Count)
	assert.True(t, cfg.Debug)
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestLoadWithFile_UnknownKeyIsRejected(t *testing.T) {
	path := writeConfigFile(t, `{
		"generate": {"output": {"prefix": "cnpjs"}},
		"generte": {"count": 5}
	}`)

	_, err := LoadWithFile(path)
	require.Error(t, err, "typos must fail the run, not fall back to defaults")
}

func TestLoadWithFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"unknown strategy",
			`{"generate": {"strategy": "shuffle", "output": {"prefix": "x"}}}`,
		},
		{
			"random with count zero",
			`{"generate": {"strategy": "random", "count": 0, "output": {"prefix": "x"}}}`,
		},
		{
			"neighborhood without base",
			`{"generate": {"strategy": "neighborhood", "output": {"prefix": "x"}}}`,
		},
		{
			"empty output prefix",
			`{"generate": {"output": {"prefix": ""}}}`,
		},
		{
			"root beyond 8 digits",
			`{"generate": {"random": {"root_max": 100000000}, "output": {"prefix": "x"}}}`,
		},
		{
			"too many workers",
			`{"check": {"workers": 100}, "generate": {"output": {"prefix": "x"}}}`,
		},
		{
			"bad timeout",
			`{"check": {"timeout": "soon"}, "generate": {"output": {"prefix": "x"}}}`,
		},
		{
			"malformed proxy url",
			`{"check": {"proxies": ["::not-a-url"]}, "generate": {"output": {"prefix": "x"}}}`,
		},
		{
			"status port out of range",
			`{"status": {"listen_port": 70000}, "generate": {"output": {"prefix": "x"}}}`,
		},
		{
			"malformed telegram token",
			`{"notify": {"telegram": {"bot_token": "nope", "chat_id": 1}}, "generate": {"output": {"prefix": "x"}}}`,
		},
		{
			"telegram token without chat id",
			`{"notify": {"telegram": {"bot_token": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"}}, "generate": {"output": {"prefix": "x"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(writeConfigFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput), "got: %v", err)
		})
	}
}

func TestCheckConfig_DurationAccessors(t *testing.T) {
	path := writeConfigFile(t, `{
		"generate": {"output": {"prefix": "x"}},
		"check": {"timeout": "30s", "retry_delay": "500ms"}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "30s", cfg.Check.Timeout)
	assert.Equal(t, int64(30_000), cfg.Check.TimeoutDuration().Milliseconds())
	assert.Equal(t, int64(500), cfg.Check.RetryDelayDuration().Milliseconds())
}

func TestTelegramConfig_ValidTokenAccepted(t *testing.T) {
	path := writeConfigFile(t, `{
		"generate": {"output": {"prefix": "x"}},
		"notify": {"telegram": {"bot_token": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11", "chat_id": 4242}}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Notify.Telegram.Enabled())
	assert.Equal(t, int64(4242), cfg.Notify.Telegram.ChatID)
}
