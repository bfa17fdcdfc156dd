package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlframe/internal/cli/output"
	"github.com/leapstack-labs/sqlframe/internal/querydef"
	sqlstar "github.com/leapstack-labs/sqlframe/internal/starlark"
	"github.com/leapstack-labs/sqlframe/pkg/frame"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Source kinds recognized by render.
const (
	kindScript = "script"
	kindQuery  = "query"
)

var sourceKinds = map[string]string{
	".star": kindScript,
	".yaml": kindQuery,
	".yml":  kindQuery,
}

// ErrRenderFailed is returned when at least one file did not render.
var ErrRenderFailed = errors.New("render failed")

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var (
		rawVars map[string]string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render builder scripts and query definitions to SQL",
		Long: `Render Starlark builder scripts (.star) and YAML query definitions
(.yaml, .yml) to SQL.

A script must assign the frame it builds to the global "query". Variables
from the config file and --var flags are visible to scripts as "vars";
later sources override earlier ones.

Output format:
  - Terminal (TTY): SQL, keywords highlighted when color is enabled
  - Piped/redirected: Markdown with one code block per file
  - --output json: a list of {file, sql, error} objects`,
		Example: `  # Render a script
  sqlframe render models/adults.star

  # Override variables
  sqlframe render --var min_age=30 --var schema=prod models/*.star

  # Re-render whenever the files change
  sqlframe render --watch queries/orders.yaml`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"star", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			vars := parseVars(rawVars)

			if !watch {
				return c.renderAndPrint(cmd.Context(), args, vars)
			}

			if err := c.renderAndPrint(cmd.Context(), args, vars); err != nil && !errors.Is(err, ErrRenderFailed) {
				return err
			}
			c.Renderer.Muted(fmt.Sprintf("Watching %d file(s) for changes. Press Ctrl+C to stop.", len(args)))
			return watchFiles(cmd.Context(), args, c.Logger, func(changed string) {
				c.Logger.Info("change detected", "file", changed)
				if err := c.renderAndPrint(cmd.Context(), args, vars); err != nil {
					c.Logger.Debug("render finished with errors", "error", err)
				}
			})
		},
	}

	cmd.Flags().StringToStringVar(&rawVars, "var", nil, "Set a variable (key=value), repeatable")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when a file changes")

	return cmd
}

func (c *CommandContext) renderAndPrint(ctx context.Context, files []string, vars map[string]any) error {
	results, err := c.renderFiles(ctx, files, vars)
	if err != nil {
		return err
	}
	if err := c.printResults(results); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files failed to render", ErrRenderFailed, failed, len(results))
	}
	return nil
}

// renderFiles renders every file. Results keep the order of files; per-file
// failures are recorded in the result rather than returned.
func (c *CommandContext) renderFiles(ctx context.Context, files []string, vars map[string]any) ([]output.RenderOutput, error) {
	results := make([]output.RenderOutput, len(files))
	render := func(f *frame.Frame) (string, error) { return c.Renderer.SQL(f, c.Configs) }

	var scripts []sqlstar.Script
	var scriptIdx, queryIdx []int
	for i, file := range files {
		results[i].File = file
		switch sourceKinds[strings.ToLower(filepath.Ext(file))] {
		case kindScript:
			src, err := os.ReadFile(file)
			if err != nil {
				results[i].Error = fmt.Sprintf("failed to read script: %v", err)
				continue
			}
			scripts = append(scripts, sqlstar.Script{Name: file, Source: string(src)})
			scriptIdx = append(scriptIdx, i)
		case kindQuery:
			queryIdx = append(queryIdx, i)
		default:
			results[i].Error = fmt.Sprintf("unsupported file type %q, expected .star, .yaml or .yml", filepath.Ext(file))
		}
	}

	if len(scripts) > 0 {
		sctx, err := sqlstar.NewContext(
			sqlstar.WithVars(mergeVars(c.Cfg.Vars, vars)),
			sqlstar.WithLogger(c.Logger),
		)
		if err != nil {
			return nil, err
		}
		exec := sqlstar.NewParallelExecutor(c.Cfg.Concurrency, sctx, render)
		for j, res := range exec.Execute(scripts) {
			idx := scriptIdx[j]
			results[idx].SQL = res.SQL
			if res.Error != nil {
				results[idx].Error = res.Error.Error()
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Cfg.Concurrency)
	for _, idx := range queryIdx {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sql, err := c.renderQuery(results[idx].File, vars, render)
			if err != nil {
				results[idx].Error = err.Error()
				return nil
			}
			results[idx].SQL = sql
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (c *CommandContext) renderQuery(path string, vars map[string]any, render sqlstar.RenderFunc) (string, error) {
	doc, err := querydef.Load(path)
	if err != nil {
		return "", err
	}
	doc.Vars = mergeVars(c.Cfg.Vars, doc.Vars, vars)

	f, err := querydef.Compile(doc, c.Logger.With("query", doc.Name))
	if err != nil {
		return "", err
	}
	return render(f)
}

func (c *CommandContext) printResults(results []output.RenderOutput) error {
	r := c.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(results)

	case output.ModeMarkdown:
		for i, res := range results {
			if i > 0 {
				r.Println()
			}
			r.Header(2, res.File)
			r.Println()
			if res.Error != "" {
				r.Println(output.FormatKeyValue("Error", res.Error))
				continue
			}
			r.Println(output.FormatCodeBlock("sql", res.SQL))
		}

	default:
		multi := len(results) > 1
		for i, res := range results {
			if res.Error != "" {
				r.Error(fmt.Sprintf("%s: %s", res.File, res.Error))
				continue
			}
			if multi {
				if i > 0 {
					r.Println()
				}
				r.Println(r.Styles().Muted.Render("-- " + res.File))
			}
			r.Println(res.SQL)
		}
	}
	return nil
}
