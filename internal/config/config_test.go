// Package config_test tests the configuration loading for the ssml-service.
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/ssml-service/internal/config"
	"github.com/book-expert/ssml-service/internal/ssml"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
[nats]
url = "nats://127.0.0.1:4222"
text_processed_subject = "text.processed"
text_object_store_bucket = "TEXT_FILES"
ssml_object_store_bucket = "SSML_FILES"

[ssml]
speaker = "en-GB-SoniaNeural"
leading_silence = "500ms"
trailing_silence = ""
lexicon_uri = "https://example.com/lexicon.xml"
sentence_pattern = "([^.]+[.!?])"
indent = true
normalize = true

[paths]
base_logs_dir = "/var/log/ssml"
`

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	err := toml.Unmarshal([]byte(fullConfig), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "text.processed", cfg.NATS.TextProcessedSubject)
	assert.Equal(t, "TEXT_FILES", cfg.NATS.TextObjectStoreBucket)
	assert.Equal(t, "SSML_FILES", cfg.NATS.SSMLObjectStoreBucket)
	assert.Equal(t, "en-GB-SoniaNeural", cfg.SSML.Speaker)
	assert.Equal(t, "500ms", cfg.SSML.LeadingSilence)
	assert.Empty(t, cfg.SSML.TrailingSilence)
	assert.Equal(t, "https://example.com/lexicon.xml", cfg.SSML.LexiconURI)
	assert.Equal(t, ssml.PeriodRunPattern, cfg.SSML.SentencePattern)
	assert.True(t, cfg.SSML.Indent)
	assert.True(t, cfg.SSML.Normalize)
	assert.Equal(t, "/var/log/ssml", cfg.Paths.BaseLogsDir)
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("[ssml]\nindent = true\n"))
	require.NoError(t, err)

	defaults := config.Default()
	assert.True(t, cfg.SSML.Indent)
	assert.Equal(t, ssml.DefaultSpeaker, cfg.SSML.Speaker)
	assert.Equal(t, ssml.DefaultLeadingSilence, cfg.SSML.LeadingSilence)
	assert.Equal(t, ssml.DefaultTrailingSilence, cfg.SSML.TrailingSilence)
	assert.Equal(t, defaults.NATS, cfg.NATS)
	assert.Equal(t, defaults.Paths, cfg.Paths)
}

func TestParse_InvalidTOML(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("[ssml\nspeaker = "))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project.toml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "en-GB-SoniaNeural", cfg.SSML.Speaker)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestCastOptions(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(fullConfig))
	require.NoError(t, err)

	opts, err := cfg.CastOptions()
	require.NoError(t, err)

	assert.Equal(t, "en-GB-SoniaNeural", opts.Speaker)
	assert.Equal(t, "500ms", opts.LeadingSilence)
	assert.Empty(t, opts.TrailingSilence)
	assert.Equal(t, "https://example.com/lexicon.xml", opts.LexiconURI)
	assert.True(t, opts.Indent)
	assert.Equal(t, []string{"A.", "B! C?"}, opts.Segmenter.Segment("A. B! C?"))
}

func TestCastOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := config.Default().CastOptions()
	require.NoError(t, err)

	defaults := ssml.DefaultOptions()
	assert.Equal(t, defaults.Speaker, opts.Speaker)
	assert.Equal(t, defaults.LeadingSilence, opts.LeadingSilence)
	assert.Equal(t, defaults.TrailingSilence, opts.TrailingSilence)
	assert.Equal(t, defaults.Segmenter, opts.Segmenter)
}

func TestCastOptions_Invalid(t *testing.T) {
	t.Parallel()

	badPattern := config.Default()
	badPattern.SSML.SentencePattern = "(a)(b)"

	_, err := badPattern.CastOptions()
	require.ErrorIs(t, err, ssml.ErrInvalidPattern)

	noSpeaker := config.Default()
	noSpeaker.SSML.Speaker = ""

	_, err = noSpeaker.CastOptions()
	require.ErrorIs(t, err, ssml.ErrInvalidOptions)
}
