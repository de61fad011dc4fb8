package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestRequiresApp(t *testing.T) {
	root := &cobra.Command{Use: "folo"}
	cleanCmd := &cobra.Command{Use: "clean"}
	root.AddCommand(cleanCmd)

	helpCmd := &cobra.Command{Use: "help"}
	root.AddCommand(helpCmd)

	completionCmd := &cobra.Command{Use: "completion"}
	bashCmd := &cobra.Command{Use: "bash"}
	completionCmd.AddCommand(bashCmd)
	root.AddCommand(completionCmd)

	require.True(t, requiresApp(cleanCmd))
	require.False(t, requiresApp(helpCmd))
	require.False(t, requiresApp(bashCmd))
}

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("data_dir = \""+filepath.ToSlash(dir)+"\"\nlog_level = \"error\"\n"), 0o600))
	t.Setenv("FOLO_CONFIG", configPath)
	t.Setenv("FOLO_API_BASE_URL", "http://127.0.0.1:0")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCleanCommand_EmptyCache(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "clean")
	require.NoError(t, err)
	require.Equal(t, "feeds=0 entries=0 lists=0 inboxes=0 subscriptions=0\n", out)
}

func TestSwitchUserCommand_RequiresArgument(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "switch-user")
	require.Error(t, err)

	out, err := execute(t, "switch-user", "user-2")
	require.NoError(t, err)
	require.Contains(t, out, "subscriptions=0")
}

func TestResetCommand(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "reset")
	require.NoError(t, err)
	require.Equal(t, "local data reset\n", out)
}

func TestRootCommand_RejectsUnknownConfigKeys(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("bogus = 1\n"), 0o600))
	t.Setenv("FOLO_CONFIG", configPath)

	_, err := execute(t, "reset")
	require.ErrorContains(t, err, "unknown keys")
}
