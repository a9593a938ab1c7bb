package highlight

import (
	"context"
	"sort"
	"strings"
	"testing"

	"fresh/internal/grammar"
	"fresh/internal/scope"
)

// Regression: a declaration's name-field scope (the "foo" in "func foo()")
// must not push/pop out of order relative to the keyword token that
// precedes it. A real grammar.Parse output is the only place this ordering
// bug (offsets emitted out of ascending order) was actually reproducible;
// hand-built, already-sorted grammar.Op fixtures can't catch it.
func TestRealGoGrammarKeywordPrecedesDeclarationName(t *testing.T) {
	registry := grammar.NewRegistry()
	parser, ok := registry.Lookup("go")
	if !ok {
		t.Fatal("go parser not registered")
	}

	source := "package main\n\nfunc foo() {\n}\n"
	ops, err := parser.Parse(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) == 0 {
		t.Fatal("Parse returned no ops")
	}

	if !sort.SliceIsSorted(ops, func(i, j int) bool { return ops[i].Offset <= ops[j].Offset }) {
		t.Fatalf("Parse ops are not offset-ordered: %+v", ops)
	}

	funcStart := strings.Index(source, "func")
	nameStart := strings.Index(source, "foo")
	if funcStart < 0 || nameStart < 0 {
		t.Fatal("test source malformed")
	}

	var sawFuncKeywordPush, sawNamePush bool
	var funcPushOffset, namePushOffset int
	for _, op := range ops {
		switch {
		case op.Kind == grammar.OpPush && op.Offset == funcStart && op.Scope == "keyword":
			sawFuncKeywordPush = true
			funcPushOffset = op.Offset
		case op.Kind == grammar.OpPush && op.Offset == nameStart && op.Scope == "entity.name.function":
			sawNamePush = true
			namePushOffset = op.Offset
		}
	}
	if !sawFuncKeywordPush {
		t.Fatalf("no keyword push at the \"func\" token (offset %d); ops: %+v", funcStart, ops)
	}
	if !sawNamePush {
		t.Fatalf("no entity.name.function push at the \"foo\" identifier (offset %d); ops: %+v", nameStart, ops)
	}
	if funcPushOffset >= namePushOffset {
		t.Fatalf("\"func\" keyword push (offset %d) does not precede the name push (offset %d)", funcPushOffset, namePushOffset)
	}

	spans := walkLines([]byte(source), ops, 0, &noopWarner{})

	var keywordSpan, nameSpan *Span
	for i := range spans {
		s := spans[i]
		if s.Category == scope.Keyword && s.Start == funcStart {
			keywordSpan = &spans[i]
		}
		if s.Category == scope.Function && s.Start == nameStart {
			nameSpan = &spans[i]
		}
	}
	if keywordSpan == nil {
		t.Fatalf("walkLines dropped the \"func\" keyword span; spans: %+v", spans)
	}
	if nameSpan == nil {
		t.Fatalf("walkLines dropped the function-name span; spans: %+v", spans)
	}
	if keywordSpan.End > nameSpan.Start {
		t.Fatalf("keyword span %+v overlaps name span %+v", keywordSpan, nameSpan)
	}
}

// Same regression, exercised through a real JavaScript parse: a class
// declaration's name field must not jump ahead of the "class" keyword.
func TestRealJavaScriptGrammarKeywordPrecedesDeclarationName(t *testing.T) {
	registry := grammar.NewRegistry()
	parser, ok := registry.Lookup("javascript")
	if !ok {
		t.Fatal("javascript parser not registered")
	}

	source := "class Widget {}\n"
	ops, err := parser.Parse(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !sort.SliceIsSorted(ops, func(i, j int) bool { return ops[i].Offset <= ops[j].Offset }) {
		t.Fatalf("Parse ops are not offset-ordered: %+v", ops)
	}

	classStart := strings.Index(source, "class")
	nameStart := strings.Index(source, "Widget")

	var classPushOffset, namePushOffset = -1, -1
	for _, op := range ops {
		if op.Kind == grammar.OpPush && op.Offset == classStart && op.Scope == "keyword" {
			classPushOffset = op.Offset
		}
		if op.Kind == grammar.OpPush && op.Offset == nameStart && op.Scope == "entity.name.type" {
			namePushOffset = op.Offset
		}
	}
	if classPushOffset == -1 || namePushOffset == -1 {
		t.Fatalf("missing expected pushes; ops: %+v", ops)
	}
	if classPushOffset >= namePushOffset {
		t.Fatalf("\"class\" keyword push (offset %d) does not precede the name push (offset %d)", classPushOffset, namePushOffset)
	}
}
