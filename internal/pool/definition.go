package pool

import (
	language "github.com/gqlkit/typedefs/internal/language"
)

// Kind names for every definition variant. The type-system kinds reuse the
// parser's names so callers can filter with either set of constants.
const (
	KindObject      = string(language.Object)
	KindInterface   = string(language.Interface)
	KindUnion       = string(language.Union)
	KindScalar      = string(language.Scalar)
	KindEnum        = string(language.Enum)
	KindInputObject = string(language.InputObject)
	KindSchema      = "SCHEMA"
	KindDirective   = "DIRECTIVE"
	KindOperation   = "OPERATION"
	KindFragment    = "FRAGMENT"
)

// SchemaIdentity is the identity used for schema definitions, which carry
// no name of their own.
const SchemaIdentity = "schema"

// Definition is a single named definition of any variant. Exactly one
// field is non-nil.
type Definition struct {
	Type      *language.Definition
	Directive *language.DirectiveDefinition
	Schema    *language.SchemaDefinition
	Operation *language.OperationDefinition
	Fragment  *language.FragmentDefinition
}

// Name returns the dedup identity of the definition: its declared name,
// or SchemaIdentity for schema definitions. Anonymous operations yield "".
func (d Definition) Name() string {
	switch {
	case d.Type != nil:
		return d.Type.Name
	case d.Directive != nil:
		return d.Directive.Name
	case d.Schema != nil:
		return SchemaIdentity
	case d.Operation != nil:
		return d.Operation.Name
	case d.Fragment != nil:
		return d.Fragment.Name
	}
	return ""
}

// Kind returns the variant kind name of the definition.
func (d Definition) Kind() string {
	switch {
	case d.Type != nil:
		return string(d.Type.Kind)
	case d.Directive != nil:
		return KindDirective
	case d.Schema != nil:
		return KindSchema
	case d.Operation != nil:
		return KindOperation
	case d.Fragment != nil:
		return KindFragment
	}
	return ""
}

// Fields returns the field list carried by the definition, or nil for
// variants without fields.
func (d Definition) Fields() language.FieldList {
	if d.Type == nil {
		return nil
	}
	return d.Type.Fields
}

// WithFields returns a copy of the definition whose underlying type node
// carries the given field list. The original node is not modified.
func (d Definition) WithFields(fields language.FieldList) Definition {
	if d.Type == nil {
		return d
	}
	clone := *d.Type
	clone.Fields = fields
	return Definition{Type: &clone}
}

// Dedupe removes definitions whose identity was already seen, keeping the
// first occurrence. Definitions with an empty identity are always kept.
func Dedupe(defs []Definition) []Definition {
	seen := make(map[string]bool, len(defs))
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		name := d.Name()
		if name != "" && seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, d)
	}
	return out
}
