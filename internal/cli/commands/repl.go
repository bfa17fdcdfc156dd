package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	sqlstar "github.com/leapstack-labs/sqlframe/internal/starlark"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"
)

const (
	replPrompt   = "sqlframe> "
	historyName  = ".sqlframe_history"
	errQuitREPL  = replError("quit")
	replHelpText = `
Commands:
  .help           Show this help message
  .vars           List script variables and names you assigned
  .layout [name]  Show or switch the SQL layout
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Input:
  expr            Evaluate and print, e.g. table("users").where(col("age").gt(18))
  name = expr     Bind the result for later lines
`
)

type replError string

func (e replError) Error() string { return string(e) }

var assignPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)$`)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var rawVars map[string]string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build queries interactively",
		Long: `Start an interactive session that evaluates builder expressions and
prints the SQL they render to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			s, err := newREPLSession(c, parseVars(rawVars))
			if err != nil {
				return err
			}
			return s.run(cmd)
		},
	}

	cmd.Flags().StringToStringVar(&rawVars, "var", nil, "Set a variable (key=value), repeatable")
	return cmd
}

type replSession struct {
	c      *CommandContext
	sctx   *sqlstar.ExecutionContext
	locals starlark.StringDict
}

func newREPLSession(c *CommandContext, vars map[string]any) (*replSession, error) {
	sctx, err := sqlstar.NewContext(
		sqlstar.WithVars(mergeVars(c.Cfg.Vars, vars)),
		sqlstar.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, err
	}
	return &replSession{c: c, sctx: sctx, locals: make(starlark.StringDict)}, nil
}

func (s *replSession) run(cmd *cobra.Command) error {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, historyName)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := s.c.Renderer
	r.Println("sqlframe REPL (layout: " + s.c.Cfg.Layout + ")")
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		out, err := s.handle(line)
		if errors.Is(err, errQuitREPL) {
			return nil
		}
		if err != nil {
			r.Error(err.Error())
			continue
		}
		if out != "" {
			r.Println(out)
		}
	}
}

// handle processes one input line and returns what to print.
func (s *replSession) handle(line string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", nil
	case strings.HasPrefix(line, "."):
		return s.dotCommand(line)
	}

	if m := assignPattern.FindStringSubmatch(line); m != nil {
		name := m[1]
		if sqlstar.IsBuiltin(name) {
			return "", fmt.Errorf("can't reassign builtin %q", name)
		}
		v, err := s.sctx.Eval(strings.TrimSpace(m[2]), s.locals)
		if err != nil {
			return "", err
		}
		s.locals[name] = v
		return "", nil
	}

	v, err := s.sctx.Eval(line, s.locals)
	if err != nil {
		return "", err
	}
	return s.show(v)
}

func (s *replSession) show(v starlark.Value) (string, error) {
	switch v := v.(type) {
	case *sqlstar.Frame:
		return s.c.Renderer.SQL(v.Frame(), s.c.Configs)
	case *sqlstar.Column:
		return v.Column().SQL()
	case starlark.NoneType:
		return "", nil
	case starlark.String:
		return string(v), nil
	default:
		return v.String(), nil
	}
}

func (s *replSession) dotCommand(line string) (string, error) {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return "", errQuitREPL

	case ".help":
		return strings.TrimSpace(replHelpText), nil

	case ".vars":
		var b strings.Builder
		vars := s.sctx.Vars
		for _, name := range slices.Sorted(maps.Keys(vars)) {
			fmt.Fprintf(&b, "vars[%q] = %v\n", name, vars[name])
		}
		for _, name := range slices.Sorted(maps.Keys(s.locals)) {
			fmt.Fprintf(&b, "%s = %s\n", name, s.locals[name].Type())
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case ".layout":
		if len(parts) < 2 {
			return "layout: " + s.c.Cfg.Layout, nil
		}
		configs, err := s.c.Cfg.Configs(parts[1])
		if err != nil {
			return "", err
		}
		s.c.Configs = configs
		s.c.Cfg.Layout = parts[1]
		return "layout: " + parts[1], nil

	case ".clear":
		return "\033[H\033[2J", nil

	default:
		return "", fmt.Errorf("unknown command: %s (type .help for commands)", parts[0])
	}
}

func (s *replSession) completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range sqlstar.BuiltinNames() {
		items = append(items, readline.PcItem(name))
	}

	var layouts []readline.PrefixCompleterInterface
	for _, name := range s.c.Cfg.LayoutNames() {
		layouts = append(layouts, readline.PcItem(name))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".vars"),
		readline.PcItem(".layout", layouts...),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
