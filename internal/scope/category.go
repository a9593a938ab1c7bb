// Package scope maps TextMate-style scope strings to the fixed, closed
// category enum the highlighter paints with. It has no dependency on any
// particular grammar; it only looks at scope name prefixes.
package scope

import "strings"

// Category is the closed set of highlight categories a theme can color.
type Category int

const (
	Comment Category = iota
	String
	Keyword
	Operator
	Function
	Type
	Number
	Constant
	Variable
	Property
	Attribute
)

func (c Category) String() string {
	switch c {
	case Comment:
		return "comment"
	case String:
		return "string"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Function:
		return "function"
	case Type:
		return "type"
	case Number:
		return "number"
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case Property:
		return "property"
	case Attribute:
		return "attribute"
	default:
		return "unknown"
	}
}

type rule struct {
	prefixes []string
	category Category
}

// table is checked top to bottom; the first matching prefix wins. Order is
// significant: more specific prefixes (keyword.operator, constant.numeric)
// must precede the generic prefixes they would otherwise be swallowed by
// (keyword, constant). The Variable rule's "variable.other" prefix comes
// before the Property rule, so "variable.other.property" and
// "variable.other.object.property" map to Variable.
var table = []rule{
	{[]string{"comment"}, Comment},
	{[]string{"string"}, String},
	{[]string{"markup.heading", "entity.name.section"}, Keyword},
	{[]string{"markup.bold"}, Constant},
	{[]string{"markup.italic"}, Variable},
	{[]string{"markup.raw", "markup.inline.raw"}, String},
	{[]string{"markup.underline.link", "markup.underline"}, Function},
	{[]string{"markup.quote", "markup.strikethrough"}, Comment},
	{[]string{"markup.list"}, Operator},
	{[]string{"keyword.operator"}, Operator},
	{[]string{"keyword"}, Keyword},
	{[]string{"punctuation"}, Operator},
	{[]string{"entity.name.function", "support.function", "meta.function-call", "variable.function"}, Function},
	{[]string{
		"entity.name.type", "entity.name.class", "entity.name.struct", "entity.name.enum", "entity.name.interface", "entity.name.trait",
		"support.type", "support.class", "storage.type",
	}, Type},
	{[]string{"storage.modifier"}, Keyword},
	{[]string{"constant.numeric", "constant.language.boolean"}, Number},
	{[]string{"constant"}, Constant},
	{[]string{"variable.parameter", "variable.other", "variable.language"}, Variable},
	{[]string{
		"entity.name.tag", "support.other.property", "meta.object-literal.key",
		"variable.other.property", "variable.other.object.property",
	}, Property},
	{[]string{"entity.other.attribute", "meta.attribute", "entity.name.decorator"}, Attribute},
	{[]string{"variable"}, Variable},
}

// ScopeToCategory matches scope by lowercased prefix against the fixed
// priority table, returning the first match. ok is false if nothing
// matches.
func ScopeToCategory(scope string) (Category, bool) {
	lowered := strings.ToLower(scope)
	for _, r := range table {
		for _, prefix := range r.prefixes {
			if strings.HasPrefix(lowered, prefix) {
				return r.category, true
			}
		}
	}
	return 0, false
}

// StackToCategory walks a scope stack top-down (most specific scope last)
// and returns the first category any entry maps to.
func StackToCategory(stack []string) (Category, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if cat, ok := ScopeToCategory(stack[i]); ok {
			return cat, true
		}
	}
	return 0, false
}
