// Package config loads editor options, the color theme and user language
// definitions from TOML files in the configuration directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EditorOptions are the knobs of the editing core. Booleans are pointers
// so an explicit false in the user file overrides a true default.
type EditorOptions struct {
	TabWidth                 int   `toml:"tab-width"`
	AutoClosingMatchingPairs *bool `toml:"auto-closing-matching-pairs"`
	AutoSurround             *bool `toml:"auto-surround"`
	LineHeight               int   `toml:"line-height"`
	LensHeight               int   `toml:"lens-height"`
	DiffContextLines         int   `toml:"diff-context-lines"`
	SystemClipboard          *bool `toml:"system-clipboard"`
	HighlightMaxBytes        int   `toml:"highlight-max-bytes"`
}

func (o EditorOptions) AutoClosing() bool  { return o.AutoClosingMatchingPairs != nil && *o.AutoClosingMatchingPairs }
func (o EditorOptions) Surround() bool     { return o.AutoSurround != nil && *o.AutoSurround }
func (o EditorOptions) UseClipboard() bool { return o.SystemClipboard != nil && *o.SystemClipboard }

type Theme struct {
	Theme               string `toml:"theme"`
	Foreground          string `toml:"foreground"`
	Background          string `toml:"background"`
	SelectionBackground string `toml:"selection-background"`
	SyntaxKeyword       string `toml:"syntax-keyword"`
	SyntaxString        string `toml:"syntax-string"`
	SyntaxComment       string `toml:"syntax-comment"`
	SyntaxType          string `toml:"syntax-type"`
	SyntaxFunction      string `toml:"syntax-function"`
	SyntaxNumber        string `toml:"syntax-number"`
	SyntaxConstant      string `toml:"syntax-constant"`
	SyntaxOperator      string `toml:"syntax-operator"`
	SyntaxPunctuation   string `toml:"syntax-punctuation"`
	SyntaxField         string `toml:"syntax-field"`
	SyntaxBuiltin       string `toml:"syntax-builtin"`
	SyntaxVariable      string `toml:"syntax-variable"`
	SyntaxParameter     string `toml:"syntax-parameter"`
	SyntaxNamespace     string `toml:"syntax-namespace"`
	SyntaxLabel         string `toml:"syntax-label"`
	SyntaxMarkup        string `toml:"syntax-markup"`
	DiffAdded           string `toml:"diff-added"`
	DiffRemoved         string `toml:"diff-removed"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
}

func boolPtr(v bool) *bool { return &v }

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:                 4,
			AutoClosingMatchingPairs: boolPtr(true),
			AutoSurround:             boolPtr(true),
			LineHeight:               25,
			LensHeight:               2,
			DiffContextLines:         3,
			SystemClipboard:          boolPtr(false),
			HighlightMaxBytes:        4 << 20,
		},
		Theme: Theme{
			Foreground:          "#B3B1AD",
			Background:          "#0A0E14",
			SelectionBackground: "#27425A",
			SyntaxKeyword:       "#FFA759",
			SyntaxString:        "#BAE67E",
			SyntaxComment:       "#5C6773",
			SyntaxType:          "#5CCFE6",
			SyntaxFunction:      "#FFD173",
			SyntaxNumber:        "#D4BFFF",
			SyntaxConstant:      "#FFDD8E",
			SyntaxOperator:      "#F29668",
			SyntaxPunctuation:   "#C0C0C0",
			SyntaxField:         "#E6B673",
			SyntaxBuiltin:       "#73D0FF",
			SyntaxVariable:      "#B3B1AD",
			SyntaxParameter:     "#D2A6FF",
			SyntaxNamespace:     "#59C2FF",
			SyntaxLabel:         "#95E6CB",
			SyntaxMarkup:        "#F07178",
			DiffAdded:           "#91B362",
			DiffRemoved:         "#D96C75",
		},
	}
}

// Load reads config.toml over the defaults and then the named theme file,
// if any. A missing config file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}
	mergeEditor(&cfg.Editor, userCfg.Editor)

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	return cfg, nil
}

func mergeEditor(dst *EditorOptions, src EditorOptions) {
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.AutoClosingMatchingPairs != nil {
		dst.AutoClosingMatchingPairs = src.AutoClosingMatchingPairs
	}
	if src.AutoSurround != nil {
		dst.AutoSurround = src.AutoSurround
	}
	if src.LineHeight > 0 {
		dst.LineHeight = src.LineHeight
	}
	if src.LensHeight > 0 {
		dst.LensHeight = src.LensHeight
	}
	if src.DiffContextLines > 0 {
		dst.DiffContextLines = src.DiffContextLines
	}
	if src.SystemClipboard != nil {
		dst.SystemClipboard = src.SystemClipboard
	}
	if src.HighlightMaxBytes > 0 {
		dst.HighlightMaxBytes = src.HighlightMaxBytes
	}
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxOperator, src.SyntaxOperator)
	set(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	set(&dst.SyntaxField, src.SyntaxField)
	set(&dst.SyntaxBuiltin, src.SyntaxBuiltin)
	set(&dst.SyntaxVariable, src.SyntaxVariable)
	set(&dst.SyntaxParameter, src.SyntaxParameter)
	set(&dst.SyntaxNamespace, src.SyntaxNamespace)
	set(&dst.SyntaxLabel, src.SyntaxLabel)
	set(&dst.SyntaxMarkup, src.SyntaxMarkup)
	set(&dst.DiffAdded, src.DiffAdded)
	set(&dst.DiffRemoved, src.DiffRemoved)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme accepts both a bare table and one wrapped in [theme].
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// ConfigDir honours QCORE_CONFIG_HOME, then XDG_CONFIG_HOME/qcore, then
// ~/.config/qcore.
func ConfigDir() (string, error) {
	if v := os.Getenv("QCORE_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qcore"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qcore"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
