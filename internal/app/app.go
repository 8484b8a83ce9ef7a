// Package app is the qcore command line: it opens one file through the
// document layer and prints what the engine derives from it.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kobzarvs/qcore/internal/config"
	"github.com/kobzarvs/qcore/internal/diff"
	"github.com/kobzarvs/qcore/internal/document"
	"github.com/kobzarvs/qcore/internal/gitinfo"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/session"
	"github.com/kobzarvs/qcore/internal/style"
	"github.com/kobzarvs/qcore/internal/syntax"
)

var (
	// ErrUsage is returned for a malformed command line.
	ErrUsage = errors.New("usage: qcore [-debug] highlight|folds|diff|mark [flags] FILE")
	// ErrNoFolds is returned by folds for a file that could not be parsed.
	ErrNoFolds = errors.New("no fold information")
)

const syncTimeout = 30 * time.Second

// App is the top-level runtime for qcore.
type App struct {
	args   []string
	out    io.Writer
	errOut io.Writer
}

func New(args []string) *App {
	return &App{args: args, out: os.Stdout, errOut: os.Stderr}
}

// WithOutput redirects what the commands print.
func (a *App) WithOutput(out, errOut io.Writer) *App {
	a.out, a.errOut = out, errOut
	return a
}

func (a *App) Run() error {
	global := flag.NewFlagSet("qcore", flag.ContinueOnError)
	global.SetOutput(a.errOut)
	debug := global.Bool("debug", false, "log at debug level")
	if err := global.Parse(a.args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return ErrUsage
	}

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintln(a.errOut, "qcore: logging disabled:", err)
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return fmt.Errorf("languages: %w", err)
	}
	opts := document.OptionsFromConfig(cfg, langs)

	cmd, cmdArgs := rest[0], rest[1:]
	logger.Debug("command", "name", cmd, "args", cmdArgs)
	switch cmd {
	case "highlight":
		return a.highlight(cmdArgs, cfg, opts)
	case "folds":
		return a.folds(cmdArgs, opts)
	case "diff":
		return a.diff(cmdArgs, opts)
	case "mark":
		return a.mark(cmdArgs, opts)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
	}
}

func (a *App) open(path string, opts document.Options) (*document.Document, error) {
	doc, err := document.Open(path, syntax.NewParserPool(), nil, opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	doc.Sync(ctx)
	return doc, nil
}

func parseFile(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", ErrUsage
	}
	return fs.Arg(0), nil
}

// highlight prints the file with terminal colors, or the raw spans.
func (a *App) highlight(args []string, cfg config.Config, opts document.Options) error {
	fs := flag.NewFlagSet("highlight", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	spansOnly := fs.Bool("spans", false, "print spans instead of colored text")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	doc, err := a.open(path, opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	spans := doc.Styles()
	if *spansOnly {
		for _, s := range spans {
			fmt.Fprintf(a.out, "%d\t%d\t%s\n", s.Start, s.End, s.Tag)
		}
		return nil
	}
	_, err = io.WriteString(a.out, Colorize(doc.Text(), spans, style.New(cfg.Theme)))
	return err
}

// Colorize wraps every styled span of text in ANSI escapes. Spans are
// closed at line ends so each output line stands alone.
func Colorize(text rope.Rope, spans syntax.Spans, table *style.Table) string {
	var b strings.Builder
	pos := 0
	write := func(s, esc string) {
		for {
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				break
			}
			if i > 0 {
				b.WriteString(esc + s[:i] + style.Reset)
			}
			b.WriteByte('\n')
			s = s[i+1:]
		}
		if s != "" {
			b.WriteString(esc + s + style.Reset)
		}
	}
	for _, sp := range spans {
		if sp.Start < pos {
			continue
		}
		b.WriteString(text.Slice(pos, sp.Start))
		st, ok := table.ForTag(sp.Tag)
		if !ok {
			b.WriteString(text.Slice(sp.Start, sp.End))
		} else {
			write(text.Slice(sp.Start, sp.End), style.ANSI(st))
		}
		pos = sp.End
	}
	b.WriteString(text.Slice(pos, text.Len()))
	return b.String()
}

// folds prints the lens height and the lines that stay at full height,
// one-based.
func (a *App) folds(args []string, opts document.Options) error {
	fs := flag.NewFlagSet("folds", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	doc, err := a.open(path, opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	lines, l, ok := doc.Folds()
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoFolds)
	}
	fmt.Fprintf(a.out, "lines %d height %d\n", l.NumLines(), l.TotalHeight())
	for _, line := range lines {
		fmt.Fprintf(a.out, "%d\t%s", line+1, doc.Text().LineContent(line))
		if line == doc.Text().LastLine() && !strings.HasSuffix(doc.Text().LineContent(line), "\n") {
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

// diff prints a unified diff against HEAD, or against another file.
func (a *App) diff(args []string, opts document.Options) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	against := fs.String("against", "", "compare with this file instead of HEAD")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	doc, err := document.Open(path, syntax.NewParserPool(), nil, opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	fromName := "HEAD:" + filepath.Base(path)
	if *against != "" {
		content, err := os.ReadFile(*against)
		if err != nil {
			return err
		}
		doc.SetReference(rope.FromString(string(content)))
		fromName = *against
	} else if err := doc.LoadGitReference(ctx); err != nil {
		if errors.Is(err, gitinfo.ErrNotRepository) {
			return fmt.Errorf("%w (use -against FILE)", err)
		}
		return err
	}
	doc.Sync(ctx)

	res, ok := doc.Diff()
	if !ok {
		return errors.New("diff did not complete")
	}
	ref, _ := doc.Reference()
	out, err := diff.Unified(ref, doc.Text(), fromName, path, opts.DiffContext)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(a.out, out); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "+%d -%d\n", res.Added, res.Removed)
	return nil
}

// mark saves a cursor position for a file, or prints the saved one.
func (a *App) mark(args []string, opts document.Options) error {
	fs := flag.NewFlagSet("mark", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	statePath := fs.String("state", "", "session file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return ErrUsage
	}
	if *statePath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return err
		}
		*statePath = p
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}
	doc, err := document.Open(path, syntax.NewParserPool(), nil, opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	sm := session.Open(*statePath)
	if fs.NArg() == 1 {
		if !doc.RestoreState(sm) {
			fmt.Fprintln(a.out, "no mark")
			return nil
		}
		line, col := doc.Text().OffsetToLineCol(doc.Cursor().Offset())
		fmt.Fprintf(a.out, "%d:%d\n", line+1, col+1)
		return nil
	}

	line, col, err := parseLineCol(fs.Arg(1))
	if err != nil {
		return err
	}
	text := doc.Text()
	offset := text.OffsetOfLineCol(line-1, col-1)
	doc.Cursor().SetNormal(min(offset, text.LineEndOffset(text.LineOfOffset(offset), false)))
	doc.SaveState(sm)
	return sm.Stop()
}

func parseLineCol(s string) (int, int, error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		c = "1"
	}
	line, err := strconv.Atoi(l)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("bad line in %q: %w", s, ErrUsage)
	}
	col, err := strconv.Atoi(c)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("bad column in %q: %w", s, ErrUsage)
	}
	return line, col, nil
}
