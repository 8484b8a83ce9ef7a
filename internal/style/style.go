// Package style turns theme colors into terminal styles for highlight
// scopes and diff lines.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qcore/internal/config"
)

// Table resolves scope tags to styles.
type Table struct {
	main      tcell.Style
	selection tcell.Style
	added     tcell.Style
	removed   tcell.Style
	tags      map[string]tcell.Style
}

// ParseColor accepts "#rrggbb", a color name known to tcell, or
// "default". Anything else yields fallback.
func ParseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewRGBColor(int32(v>>16&0xff), int32(v>>8&0xff), int32(v&0xff))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// New builds the table for theme.
func New(theme config.Theme) *Table {
	fg := ParseColor(theme.Foreground, tcell.ColorWhite)
	bg := ParseColor(theme.Background, tcell.ColorBlack)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	color := func(name string) tcell.Style {
		return base.Foreground(ParseColor(name, fg))
	}

	t := &Table{
		main:      base,
		selection: base.Background(ParseColor(theme.SelectionBackground, bg)),
		added:     color(theme.DiffAdded),
		removed:   color(theme.DiffRemoved),
	}
	t.tags = map[string]tcell.Style{
		"keyword":               color(theme.SyntaxKeyword).Bold(true),
		"string":                color(theme.SyntaxString),
		"escape":                color(theme.SyntaxConstant),
		"comment":               color(theme.SyntaxComment).Italic(true),
		"type":                  color(theme.SyntaxType),
		"function":              color(theme.SyntaxFunction),
		"function.builtin":      color(theme.SyntaxBuiltin),
		"function.macro":        color(theme.SyntaxBuiltin),
		"number":                color(theme.SyntaxNumber),
		"constant":              color(theme.SyntaxConstant),
		"operator":              color(theme.SyntaxOperator),
		"punctuation":           color(theme.SyntaxPunctuation),
		"property":              color(theme.SyntaxField),
		"attribute":             color(theme.SyntaxField),
		"variable":              color(theme.SyntaxVariable),
		"variable.builtin":      color(theme.SyntaxBuiltin),
		"variable.parameter":    color(theme.SyntaxParameter),
		"namespace":             color(theme.SyntaxNamespace),
		"label":                 color(theme.SyntaxLabel),
		"markup":                color(theme.SyntaxMarkup),
		"markup.heading":        color(theme.SyntaxMarkup).Bold(true),
		"punctuation.delimiter": color(theme.SyntaxPunctuation),
	}
	return t
}

func (t *Table) Main() tcell.Style      { return t.main }
func (t *Table) Selection() tcell.Style { return t.selection }
func (t *Table) Added() tcell.Style     { return t.added }
func (t *Table) Removed() tcell.Style   { return t.removed }

// ForTag returns the style of tag, falling back through its dotted
// prefixes. Unknown tags get the main style and false.
func (t *Table) ForTag(tag string) (tcell.Style, bool) {
	for tag != "" {
		if st, ok := t.tags[tag]; ok {
			return st, true
		}
		i := strings.LastIndexByte(tag, '.')
		if i < 0 {
			break
		}
		tag = tag[:i]
	}
	return t.main, false
}

// ANSI renders the foreground and attributes of st as an SGR escape
// sequence. The default style renders as "".
func ANSI(st tcell.Style) string {
	fg, _, attrs := st.Decompose()
	var params []string
	if attrs&tcell.AttrBold != 0 {
		params = append(params, "1")
	}
	if attrs&tcell.AttrItalic != 0 {
		params = append(params, "3")
	}
	if fg != tcell.ColorDefault && fg.Valid() {
		r, g, b := fg.RGB()
		params = append(params, fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Reset ends a sequence started by ANSI.
const Reset = "\x1b[0m"
