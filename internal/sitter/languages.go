package sitter

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// profile describes how one grammar maps onto the generic node kinds:
// which node types are declarations, which are selector chains, and the
// grammar field naming the trailing (selected) part of a chain.
type profile struct {
	language *sitter.Language
	decls    map[string]bool
	selects  map[string]string // node type -> field name of the selected part
}

var extToLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".rs":   "rust",
}

var (
	profiles     map[string]*profile
	profilesOnce sync.Once
)

func initProfiles() {
	profilesOnce.Do(func() {
		profiles = map[string]*profile{
			"go": {
				language: golang.GetLanguage(),
				decls: set("function_declaration", "method_declaration",
					"type_declaration", "var_declaration", "const_declaration"),
				selects: map[string]string{"selector_expression": "field"},
			},
			"python": {
				language: python.GetLanguage(),
				decls:    set("function_definition", "class_definition"),
				selects:  map[string]string{"attribute": "attribute"},
			},
			"javascript": {
				language: javascript.GetLanguage(),
				decls: set("function_declaration", "method_definition",
					"class_declaration", "lexical_declaration", "variable_declaration"),
				selects: map[string]string{"member_expression": "property"},
			},
			"typescript": {
				language: ts.GetLanguage(),
				decls: set("function_declaration", "method_definition",
					"class_declaration", "interface_declaration",
					"lexical_declaration", "variable_declaration"),
				selects: map[string]string{"member_expression": "property"},
			},
			"java": {
				language: java.GetLanguage(),
				decls: set("method_declaration", "class_declaration",
					"field_declaration", "interface_declaration", "record_declaration"),
				selects: map[string]string{"field_access": "field"},
			},
			"rust": {
				language: rust.GetLanguage(),
				decls: set("function_item", "struct_item", "enum_item",
					"impl_item", "let_declaration", "const_item"),
				selects: map[string]string{"field_expression": "field"},
			},
		}
	})
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// LanguageForPath returns the canonical language name for a file path based
// on its extension.
func LanguageForPath(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Languages lists the supported canonical language names.
func Languages() []string {
	initProfiles()
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	return out
}

func profileFor(lang string) (*profile, bool) {
	initProfiles()
	p, ok := profiles[lang]
	return p, ok
}
