package grammar

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

type languageTable struct {
	language        *sitter.Language
	nodeScopes      map[string]string
	nameFieldScopes []nameFieldRule
}

var goKeywords = []string{
	"func", "package", "import", "return", "if", "else", "for", "range",
	"var", "const", "type", "struct", "interface", "chan", "go", "defer",
	"select", "case", "switch", "default", "break", "continue", "fallthrough", "goto", "map",
}

var goOperators = []string{
	"+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>", "&^",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "&^=",
	"&&", "||", "<-", "++", "--", "==", "<", ">", "=", "!", "!=", "<=", ">=", ":=", "...",
}

var pythonKeywords = []string{
	"def", "class", "return", "if", "elif", "else", "for", "while", "import", "from", "as",
	"with", "try", "except", "finally", "raise", "pass", "break", "continue", "lambda",
	"global", "nonlocal", "yield", "assert", "del", "in", "is", "not", "and", "or", "async", "await",
}

var pythonOperators = []string{
	"+", "-", "*", "/", "%", "**", "//", "==", "!=", "<", "<=", ">", ">=",
	"=", "+=", "-=", "*=", "/=", "//=", "%=", "**=", "&", "|", "^", "~", "<<", ">>", ":=",
}

var jsKeywords = []string{
	"function", "return", "if", "else", "for", "while", "var", "let", "const",
	"class", "extends", "new", "try", "catch", "finally", "throw", "switch", "case", "default",
	"break", "continue", "do", "in", "of", "typeof", "instanceof", "void", "delete",
	"yield", "async", "await", "import", "export", "from", "as",
}

var jsOperators = []string{
	"+", "-", "*", "/", "%", "**", "==", "===", "!=", "!==", "<", "<=", ">", ">=",
	"=", "+=", "-=", "*=", "/=", "&&", "||", "??", "!", "++", "--", "=>", "...",
}

func mapAll(keys []string, value string, into map[string]string) {
	for _, k := range keys {
		into[k] = value
	}
}

var languageTables = map[string]languageTable{
	"go": {
		language: golang.GetLanguage(),
		nodeScopes: func() map[string]string {
			m := map[string]string{
				"comment":                  "comment.line",
				"interpreted_string_literal": "string.quoted",
				"raw_string_literal":       "string.quoted",
				"rune_literal":             "string.quoted",
				"int_literal":              "constant.numeric",
				"float_literal":            "constant.numeric",
				"imaginary_literal":        "constant.numeric",
				"true":                     "constant.language.boolean",
				"false":                    "constant.language.boolean",
				"nil":                      "constant.language",
				"type_identifier":          "entity.name.type",
			}
			mapAll(goKeywords, "keyword", m)
			mapAll(goOperators, "keyword.operator", m)
			return m
		}(),
		nameFieldScopes: []nameFieldRule{
			{declNodeType: "function_declaration", field: "name", scope: "entity.name.function"},
			{declNodeType: "method_declaration", field: "name", scope: "entity.name.function"},
		},
	},
	"python": {
		language: python.GetLanguage(),
		nodeScopes: func() map[string]string {
			m := map[string]string{
				"comment": "comment.line",
				"string":  "string.quoted",
				"integer": "constant.numeric",
				"float":   "constant.numeric",
				"true":    "constant.language.boolean",
				"false":   "constant.language.boolean",
				"none":    "constant.language",
			}
			mapAll(pythonKeywords, "keyword", m)
			mapAll(pythonOperators, "keyword.operator", m)
			return m
		}(),
		nameFieldScopes: []nameFieldRule{
			{declNodeType: "function_definition", field: "name", scope: "entity.name.function"},
			{declNodeType: "class_definition", field: "name", scope: "entity.name.type"},
		},
	},
	"javascript": {
		language: javascript.GetLanguage(),
		nodeScopes: func() map[string]string {
			m := map[string]string{
				"comment":         "comment.line",
				"string":          "string.quoted",
				"template_string": "string.quoted",
				"number":          "constant.numeric",
				"true":            "constant.language.boolean",
				"false":           "constant.language.boolean",
				"null":            "constant.language",
				"undefined":       "constant.language",
			}
			mapAll(jsKeywords, "keyword", m)
			mapAll(jsOperators, "keyword.operator", m)
			return m
		}(),
		nameFieldScopes: []nameFieldRule{
			{declNodeType: "function_declaration", field: "name", scope: "entity.name.function"},
			{declNodeType: "class_declaration", field: "name", scope: "entity.name.type"},
			{declNodeType: "method_definition", field: "name", scope: "entity.name.function"},
		},
	},
}
