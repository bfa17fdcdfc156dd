// Package commands implements the sqlframe subcommands.
package commands

import (
	"log/slog"
	"maps"

	"github.com/leapstack-labs/sqlframe/internal/cli/config"
	"github.com/leapstack-labs/sqlframe/internal/cli/output"
	"github.com/leapstack-labs/sqlframe/pkg/format"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	// Configs is the resolved layout.
	Configs format.Configs
}

// NewCommandContext resolves the configuration, layout and renderer for cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	configs, err := cfg.Configs(cfg.Layout)
	if err != nil {
		return nil, err
	}

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
	r.SetColor(cfg.Color)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: r,
		Configs:  configs,
	}, nil
}

// mergeVars layers variable maps; later maps win.
func mergeVars(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// parseVars reads --var values as YAML scalars, so 21 is a number and
// true a bool. Values that don't parse stay strings.
func parseVars(raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		var parsed any
		if err := yaml.Unmarshal([]byte(v), &parsed); err != nil || parsed == nil {
			out[k] = v
			continue
		}
		switch parsed.(type) {
		case map[string]any, []any:
			out[k] = v
		default:
			out[k] = parsed
		}
	}
	return out
}
