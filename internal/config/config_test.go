package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Veraticus/digit-bayes/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("DIGITS_TEST_DIR", "/srv/digits")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "models", "a.txt"), ExpandPath("~/models/a.txt"))
	assert.Equal(t, "/srv/digits/db", ExpandPath("$DIGITS_TEST_DIR/db"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ExpandPath(DefaultDatabasePath), cfg.DatabasePath)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: "+dir+"/registry.db\nworkers: 3\nlogging:\n  level: debug\n  format: json\n"), 0600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "registry.db"), cfg.DatabasePath)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		set     func(v *viper.Viper)
		wantErr error
		name    string
	}{
		{name: "negative workers", set: func(v *viper.Viper) { v.Set(KeyWorkers, -2) }, wantErr: common.ErrInvalidConfig},
		{name: "bad level", set: func(v *viper.Viper) { v.Set(KeyLogLevel, "chatty") }, wantErr: common.ErrInvalidConfig},
		{name: "bad format", set: func(v *viper.Viper) { v.Set(KeyLogFormat, "xml") }, wantErr: common.ErrInvalidConfig},
		{name: "no database", set: func(v *viper.Viper) { v.Set(KeyDatabasePath, "") }, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.set(v)

			_, err := Load(v)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
