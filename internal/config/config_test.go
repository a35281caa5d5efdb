package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/postbuilder/postbuilder/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "postbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "content:\n  root: articles\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "articles", cfg.Content.Root)
	require.Equal(t, DefaultSeparator, cfg.Content.Separator)
	require.Equal(t, PolicyFail, cfg.Content.OnInvalid)
	require.Contains(t, cfg.Content.Extensions, ".md")
	require.Equal(t, "dist", cfg.Output.Directory)
	require.Equal(t, ".postbuilder/state.db", cfg.State.Path)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Equal(t, 500*time.Millisecond, cfg.DebounceDuration())
}

func TestLoad_MissingFile_ReturnsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var pe *apperrors.PipelineError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, apperrors.CategoryConfig, pe.Category)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("BLOG_CONTENT_ROOT", "/srv/blog/content")
	path := writeConfig(t, "content:\n  root: ${BLOG_CONTENT_ROOT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/blog/content", cfg.Content.Root)
}

func TestLoad_NormalizesPolicyAndLogging(t *testing.T) {
	path := writeConfig(t, `
content:
  on_invalid: SKIP
logging:
  level: DEBUG
  format: JSON
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, PolicySkip, cfg.Content.OnInvalid)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_InvalidDebounce_Fails(t *testing.T) {
	path := writeConfig(t, "watch:\n  debounce: soon\n")

	_, err := Load(path)
	require.Error(t, err)

	var pe *apperrors.PipelineError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "watch.debounce", pe.Context["field"])
}

func TestLoad_GitSourceWithoutURL_Fails(t *testing.T) {
	path := writeConfig(t, "source:\n  git:\n    branch: main\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_GitSourceDefaultsCheckoutDir(t *testing.T) {
	path := writeConfig(t, "source:\n  git:\n    url: https://example.com/content.git\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ".postbuilder/content", cfg.Source.Git.Dir)
}

func TestLoad_MetricsEnabledWithoutListen_Fails(t *testing.T) {
	path := writeConfig(t, "metrics:\n  enabled: true\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestNormalizeInvalidPolicy_DefaultsToFail(t *testing.T) {
	require.Equal(t, PolicyFail, NormalizeInvalidPolicy(""))
	require.Equal(t, PolicyFail, NormalizeInvalidPolicy("nonsense"))
	require.Equal(t, PolicySkip, NormalizeInvalidPolicy(" Skip "))
}

func TestWriteDefault_RefusesToOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postbuilder.yaml")

	require.NoError(t, WriteDefault(path, false))
	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "content", cfg.Content.Root)
	require.Equal(t, PolicyFail, cfg.Content.OnInvalid)
}
