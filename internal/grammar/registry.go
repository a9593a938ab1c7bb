// Package grammar concretizes the core's external "parser/grammar"
// collaborator: given a byte window and a language name, it returns a
// stream of scope push/pop operations a TextMate-style highlighter can
// replay against a scope stack. It is backed by tree-sitter.
package grammar

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// OpKind discriminates a scope push from a scope pop.
type OpKind int

const (
	// OpPush opens a new scope at Offset; Scope names it.
	OpPush OpKind = iota
	// OpPop closes the most recently pushed scope at Offset.
	OpPop
)

// Op is one scope-stack operation produced by parsing a window. Offset is
// relative to the start of the window handed to Parse.
type Op struct {
	Offset int
	Kind   OpKind
	Scope  string
}

// Parser parses one byte window of a known language and returns the scope
// ops a highlighter replays in offset order. The returned ops are
// well-nested: every OpPush has a matching OpPop at or after its offset,
// and they do not cross.
type Parser interface {
	Parse(ctx context.Context, content []byte) ([]Op, error)
}

// Registry looks up a Parser by language name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry preloaded with every grammar this module
// ships a scope table for: Go, Python, and JavaScript.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	for name, lang := range languageTables {
		r.parsers[name] = &treeSitterParser{language: lang.language, table: lang.nodeScopes, nameFields: lang.nameFieldScopes}
	}
	return r
}

// Lookup returns the Parser registered for name, if any.
func (r *Registry) Lookup(name string) (Parser, bool) {
	p, ok := r.parsers[name]
	return p, ok
}

// Languages returns the registered language names.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		out = append(out, name)
	}
	return out
}

// nameFieldRule scopes the field-named child of a declaration node (e.g.
// the "name" field of a function_declaration) rather than the whole node,
// so only the identifier itself is painted as an entity name.
type nameFieldRule struct {
	declNodeType string
	field        string
	scope        string
}

// treeSitterParser implements Parser against a single tree-sitter
// language, projecting node types to scope strings via two tables: a
// blanket node-type table (comments, literals, keyword tokens) and a set
// of name-field rules for declarations.
type treeSitterParser struct {
	language   *sitter.Language
	table      map[string]string
	nameFields []nameFieldRule
}

func (p *treeSitterParser) Parse(ctx context.Context, content []byte) ([]Op, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.language)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("grammar: parse: %w", err)
	}
	defer tree.Close()

	var ops []Op
	p.walk(tree.RootNode(), &ops)

	// walk emits a name-field node's push/pop ahead of the sibling tokens
	// that precede it positionally (it special-cases the field before
	// recursing into the rest of the declaration's children), so the
	// stream isn't offset-ordered by construction. Sort it here rather
	// than relying on every caller to know that: Parse's contract is
	// well-nested, offset-ordered ops, full stop. Ties break pops before
	// pushes so a scope fully closes before an adjacent one opens at the
	// same offset; ties between two ops of the same kind keep walk's
	// original (correctly nested) relative order.
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Offset != ops[j].Offset {
			return ops[i].Offset < ops[j].Offset
		}
		return ops[i].Kind == OpPop && ops[j].Kind == OpPush
	})

	return ops, nil
}

func (p *treeSitterParser) walk(n *sitter.Node, ops *[]Op) {
	if n == nil {
		return
	}

	if scope, ok := p.table[n.Type()]; ok {
		*ops = append(*ops, Op{Offset: int(n.StartByte()), Kind: OpPush, Scope: scope})
		for i := 0; i < int(n.ChildCount()); i++ {
			p.walk(n.Child(i), ops)
		}
		*ops = append(*ops, Op{Offset: int(n.EndByte()), Kind: OpPop})
		return
	}

	if scope, ok := p.nameFieldScope(n); ok {
		field := n.ChildByFieldName("name")
		*ops = append(*ops, Op{Offset: int(field.StartByte()), Kind: OpPush, Scope: scope})
		*ops = append(*ops, Op{Offset: int(field.EndByte()), Kind: OpPop})
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		p.walk(n.Child(i), ops)
	}
}

func (p *treeSitterParser) nameFieldScope(n *sitter.Node) (string, bool) {
	for _, rule := range p.nameFields {
		if n.Type() != rule.declNodeType {
			continue
		}
		if n.ChildByFieldName(rule.field) == nil {
			continue
		}
		return rule.scope, true
	}
	return "", false
}
