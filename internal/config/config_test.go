package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CHATTY_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, ProviderMemory, c.Provider.Kind)
	require.Equal(t, 100, c.Provider.HistoryLimit)
	require.Equal(t, 250*time.Millisecond, c.UI.TickRate)
	require.Equal(t, 20, c.UI.ContactsWidth)
	require.Equal(t, 60, c.UI.PopupWidth)
	require.Equal(t, 20, c.UI.PopupHeight)
	require.True(t, c.Database.SeedDemo)
	require.Equal(t, filepath.Join(home, ".local", "share", "chatty", "chatty.db"), c.Database.Path)
	require.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "chatty.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[provider]
kind = "sqlite"
history_limit = 10

[ui]
tick_rate = "1s"
contacts_width = 30
`), 0o644))
	t.Setenv("CHATTY_UI_CONTACTS_WIDTH", "25")

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, ProviderSQLite, c.Provider.Kind)
	require.Equal(t, 10, c.Provider.HistoryLimit)
	require.Equal(t, time.Second, c.UI.TickRate)
	require.Equal(t, 25, c.UI.ContactsWidth)
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	home := isolate(t)
	c, err := Load(viper.New(), filepath.Join(home, "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, ProviderMemory, c.Provider.Kind)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("provider.kind", "carrier-pigeon")
	_, err := Load(v, "")
	require.ErrorIs(t, err, ErrInvalid)

	v = viper.New()
	v.Set("provider.history_limit", 0)
	_, err = Load(v, "")
	require.ErrorIs(t, err, ErrInvalid)

	v = viper.New()
	v.Set("ui.contacts_width", 100)
	_, err = Load(v, "")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.toml")

	want, err := Load(viper.New(), "")
	require.NoError(t, err)
	want.Provider.Kind = ProviderSQLite
	want.UI.TickRate = 500 * time.Millisecond
	want.Log.Level = "debug"
	require.NoError(t, Save(want, path))

	got, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
