// Package language describes the languages the editor knows how to parse:
// how files map to them, their grammars and highlight queries, and the
// node kinds that drive folding.
package language

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/qcore/internal/config"
)

type Language int

const (
	Unknown Language = iota
	Go
	Bash
	YAML
	TOML
	Markdown
	Python
	Rust
	JavaScript
)

// All lists every known language except Unknown.
var All = []Language{Go, Bash, YAML, TOML, Markdown, Python, Rust, JavaScript}

type properties struct {
	name        string
	extensions  []string
	filenames   []string
	comment     string
	indent      string
	grammar     func() *sitter.Language
	query       string
	foldDescend []string
	foldIgnore  []string
}

var table = map[Language]properties{
	Go: {
		name:        "go",
		extensions:  []string{"go"},
		comment:     "//",
		indent:      "\t",
		grammar:     golang.GetLanguage,
		query:       goHighlightQuery,
		foldDescend: []string{"source_file", "type_declaration", "type_spec", "interface_type", "method_spec_list"},
		foldIgnore:  []string{"source_file", "comment", "line_comment", "import_declaration", "package_clause"},
	},
	Bash: {
		name:        "bash",
		extensions:  []string{"sh", "bash", "zsh"},
		filenames:   []string{".bashrc", ".bash_profile", ".zshrc", ".profile"},
		comment:     "#",
		indent:      "  ",
		grammar:     bash.GetLanguage,
		query:       bashHighlightQuery,
		foldDescend: []string{"program"},
		foldIgnore:  []string{"program", "comment"},
	},
	YAML: {
		name:        "yaml",
		extensions:  []string{"yaml", "yml"},
		comment:     "#",
		indent:      "  ",
		grammar:     yaml.GetLanguage,
		query:       yamlHighlightQuery,
		foldDescend: []string{"stream", "document", "block_node", "block_mapping"},
		foldIgnore:  []string{"stream", "document", "block_node", "block_mapping", "comment"},
	},
	TOML: {
		name:        "toml",
		extensions:  []string{"toml"},
		filenames:   []string{"Cargo.lock"},
		comment:     "#",
		indent:      "  ",
		grammar:     toml.GetLanguage,
		query:       tomlHighlightQuery,
		foldDescend: []string{"document"},
		foldIgnore:  []string{"document", "comment"},
	},
	Markdown: {
		name:        "markdown",
		extensions:  []string{"md", "markdown"},
		indent:      "  ",
		grammar:     tree_sitter_markdown.GetLanguage,
		query:       markdownHighlightQuery,
		foldDescend: []string{"document", "section"},
		foldIgnore:  []string{"document", "section", "paragraph"},
	},
	Python: {
		name:        "python",
		extensions:  []string{"py", "pyi"},
		comment:     "#",
		indent:      "    ",
		grammar:     python.GetLanguage,
		query:       pythonHighlightQuery,
		foldDescend: []string{"module", "class_definition", "block", "decorated_definition"},
		foldIgnore:  []string{"module", "block", "comment", "import_statement", "import_from_statement", "expression_statement"},
	},
	Rust: {
		name:        "rust",
		extensions:  []string{"rs"},
		comment:     "//",
		indent:      "    ",
		grammar:     rust.GetLanguage,
		query:       rustHighlightQuery,
		foldDescend: []string{"source_file", "impl_item", "trait_item", "declaration_list", "mod_item"},
		foldIgnore:  []string{"source_file", "use_declaration", "line_comment", "declaration_list"},
	},
	JavaScript: {
		name:        "javascript",
		extensions:  []string{"js", "mjs", "cjs", "jsx"},
		comment:     "//",
		indent:      "  ",
		grammar:     javascript.GetLanguage,
		query:       javascriptHighlightQuery,
		foldDescend: []string{"program", "class_declaration", "class_body", "export_statement"},
		foldIgnore:  []string{"program", "class_body", "comment", "import_statement", "export_statement"},
	},
}

func (l Language) String() string {
	if p, ok := table[l]; ok {
		return p.name
	}
	return "unknown"
}

// FromName resolves a language name or common alias.
func FromName(name string) Language {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	s = strings.TrimPrefix(s, ".")
	switch s {
	case "golang":
		s = "go"
	case "yml":
		s = "yaml"
	case "shell", "sh", "zsh":
		s = "bash"
	case "js", "jsx", "node":
		s = "javascript"
	case "py", "python3":
		s = "python"
	case "rs":
		s = "rust"
	case "md":
		s = "markdown"
	}
	for _, l := range All {
		if table[l].name == s {
			return l
		}
	}
	return Unknown
}

// FromPath detects a language from a file name using the built-in table.
func FromPath(path string) Language {
	base := filepath.Base(path)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for _, l := range All {
		p := table[l]
		for _, f := range p.filenames {
			if f == base {
				return l
			}
		}
		if ext == "" {
			continue
		}
		for _, e := range p.extensions {
			if e == ext {
				return l
			}
		}
	}
	return Unknown
}

// Detect consults user language definitions before the built-in table.
func Detect(path string, langs config.Languages) Language {
	if def := langs.Match(path); def != nil {
		if l := FromName(def.Name); l != Unknown {
			return l
		}
	}
	return FromPath(path)
}

// Grammar returns the tree-sitter grammar, or nil for Unknown.
func (l Language) Grammar() *sitter.Language {
	p, ok := table[l]
	if !ok || p.grammar == nil {
		return nil
	}
	return p.grammar()
}

// HighlightQuery returns the capture query used for highlighting.
func (l Language) HighlightQuery() string { return table[l].query }

// LineComment returns the line comment token, empty when there is none.
func (l Language) LineComment() string { return table[l].comment }

// IndentUnit returns one level of indentation.
func (l Language) IndentUnit() string {
	if p, ok := table[l]; ok {
		return p.indent
	}
	return "    "
}

// FoldKinds returns the node kinds walked into and the node kinds whose
// boundaries do not make a line normal.
func (l Language) FoldKinds() (descend, ignore []string) {
	p := table[l]
	return p.foldDescend, p.foldIgnore
}
