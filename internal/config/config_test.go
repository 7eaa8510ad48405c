package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/cv",
		"port": 9090,
		"locale": "en-GB",
		"formats": ["pdf", "txt"],
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/cv", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "en-GB", cfg.Locale)
	assert.Equal(t, []string{"pdf", "txt"}, cfg.Formats)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{ invalid json }`), 0644))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty path", "", "config path is empty"},
		{"missing file", "/nonexistent/path/config.json", "failed to read config file"},
		{"invalid json", invalid, "failed to parse config JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/cv")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("PORT", "8181")
	t.Setenv("RESUME_LOCALE", "en")
	t.Setenv("CHROME_PATH", "/usr/bin/chromium")
	t.Setenv("PDF_ENGINE", "latex")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		DatabaseURL: "postgres://db/cv",
		RedisURL:    "redis://cache:6379/0",
		Port:        8181,
		Locale:      "en",
		ChromePath:  "/usr/bin/chromium",
		PDFEngine:   "latex",
	}, cfg)

	t.Setenv("PORT", "eighty")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "resume.tex")
	require.NoError(t, os.WriteFile(tmpl, []byte(`x`), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"valid", Config{Port: 8080, Locale: "fr-FR", LaTeXTemplate: tmpl}, ""},
		{"negative port", Config{Port: -1}, "port"},
		{"port too large", Config{Port: 70000}, "port"},
		{"bad locale", Config{Locale: "not a locale!"}, "invalid locale"},
		{"latex engine", Config{PDFEngine: "latex"}, ""},
		{"unknown engine", Config{PDFEngine: "wkhtmltopdf"}, "unsupported PDF engine"},
		{"missing template", Config{LaTeXTemplate: "/nonexistent.tex"}, "template file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Locale: "en", Formats: []string{"pdf"}}
	defaults := Config{
		PDFEngine:   "latex",
		DatabaseURL: "postgres://default",
		Locale:      "fr",
		OutputDir:   "out",
		Formats:     []string{"html"},
		Port:        9000,
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "postgres://default", merged.DatabaseURL)
	assert.Equal(t, "en", merged.Locale, "set values win")
	assert.Equal(t, "out", merged.OutputDir)
	assert.Equal(t, []string{"pdf"}, merged.Formats)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "latex", merged.PDFEngine)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Empty(t, merged.DatabaseURL)
	assert.Empty(t, merged.Formats)
}
