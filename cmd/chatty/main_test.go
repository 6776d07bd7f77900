package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/chatty/internal/state"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHATTY_CONFIG", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSeedIsIdempotent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "data", "chat.db")
	require.Contains(t, execute(t, "--db", db, "seed"), "seeded")
	require.Contains(t, execute(t, "--db", db, "seed"), "already has contacts")
}

func TestConfigWriteUsesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatty.toml")
	out := execute(t, "--provider", "sqlite", "--db", "/tmp/x.db", "config", "write", path)
	require.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "sqlite")
	require.Contains(t, string(raw), "/tmp/x.db")
}

func TestInvalidProviderFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--provider", "pigeon", "seed"})
	require.Error(t, cmd.Execute())
}

func runChat(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHATTY_CONFIG", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRunStopsWhenInputEnds(t *testing.T) {
	require.NoError(t, runChat(t))
}

func TestRunWithoutContactsFails(t *testing.T) {
	t.Setenv("CHATTY_DATABASE_SEED_DEMO", "false")
	err := runChat(t, "--provider", "memory")
	require.ErrorIs(t, err, state.ErrNoContacts)
}
