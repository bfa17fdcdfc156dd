package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlframe/internal/cli/config"
	"github.com/leapstack-labs/sqlframe/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"render", "functions", "repl", "version", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"config", "layout", "output", "color", "concurrency", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_Render(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "layout from config file",
			args:     []string{"render", "-o", "text", "models/adults.star"},
			expected: "SELECT id, name FROM analytics.users WHERE age >= 21\n",
		},
		{
			name:     "layout flag",
			args:     []string{"render", "-o", "text", "--layout", "query", "models/adults.star"},
			expected: "SELECT id, name\nFROM analytics.users\nWHERE age >= 21\n",
		},
		{
			name:     "var flag",
			args:     []string{"render", "-o", "text", "--var", "min_age=65", "models/adults.star"},
			expected: "SELECT id, name FROM analytics.users WHERE age >= 65\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRootCommand_EnvOverride(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	t.Setenv("SQLFRAME_LAYOUT", "query")
	t.Setenv("SQLFRAME_OUTPUT", "text")

	out, _, err := run(t, "render", "models/adults.star")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name\nFROM analytics.users\nWHERE age >= 21\n", out)
}

func TestRootCommand_Verbose(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	_, errOut, err := run(t, "-v", "render", "-o", "text", "models/adults.star")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Using config file: ")
	assert.Contains(t, errOut, "Using layout: flat")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: html\n"), 0644))

	_, _, err := run(t, "--config", path, "functions")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRootCommand_UnknownLayout(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "--layout", "nope", "functions")
	assert.ErrorContains(t, err, `unknown layout "nope"`)
}

func TestRootCommand_Version(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlframe v"+Version)

	out, _, err = run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlframe "+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "sqlframe")
		})
	}

	_, _, err := run(t, "completion", "tcsh")
	assert.Error(t, err)
}
