package commands

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/sqlframe/internal/cli/config"
	"github.com/leapstack-labs/sqlframe/internal/cli/output"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfig loads the project config at path and forces output settings.
func useConfig(t *testing.T, path string, mode output.Mode) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	cfg.Output = string(mode)
	cfg.Color = output.ColorNever
	return cfg
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRenderCommand(), "render <file>...", []string{"var", "watch"}},
		{NewFunctionsCommand(), "functions", []string{"category"}},
		{NewREPLCommand(), "repl", []string{"var"}},
		{NewVersionCommand("x"), "version", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestParseVars(t *testing.T) {
	got := parseVars(map[string]string{
		"n":     "21",
		"f":     "1.5",
		"b":     "true",
		"s":     "abc",
		"list":  "[1, 2]",
		"empty": "",
	})
	assert.Equal(t, map[string]any{
		"n":     21,
		"f":     1.5,
		"b":     true,
		"s":     "abc",
		"list":  "[1, 2]",
		"empty": "",
	}, got)
}

func TestMergeVars(t *testing.T) {
	got := mergeVars(
		map[string]any{"a": 1, "b": 1},
		nil,
		map[string]any{"b": 2, "c": 2},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 2}, got)
	assert.Empty(t, mergeVars())
}
