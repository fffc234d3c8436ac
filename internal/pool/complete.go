package pool

import (
	"fmt"

	language "github.com/gqlkit/typedefs/internal/language"
)

// MissingDefinitionError reports a reference whose target definition does
// not exist anywhere in the loaded corpus. It is fatal: it signals an
// inconsistent schema, not a recoverable condition.
type MissingDefinitionError struct {
	Name    string // the missing identity
	Context string // where the reference occurred, e.g. `field "owner"`
}

func (e *MissingDefinitionError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: no definition found for %q in any of the loaded schemas", e.Context, e.Name)
	}
	return fmt.Sprintf("no definition found for %q in any of the loaded schemas", e.Name)
}

// Complete grows definitions until every reference made by a definition in
// the pool resolves to a definition in the pool. all is every definition
// ever seen and is used for lookups only. definitions is the working pool;
// work seeds the traversal. The returned list is the closed pool with
// duplicate identities removed, first occurrence kept.
//
// Running Complete on an already-closed pool returns the same pool.
func Complete(all, definitions, work []Definition) ([]Definition, error) {
	visited := make(map[string]bool)
	queue := append([]Definition(nil), work...)

	for len(queue) > 0 {
		// Most-recently-declared definition wins name ties.
		lookup := make(map[string]Definition, len(all))
		for _, d := range all {
			if name := d.Name(); name != "" {
				lookup[name] = d
			}
		}

		next := queue[0]
		queue = queue[1:]
		if name := next.Name(); name != "" {
			if visited[name] {
				continue
			}
			visited[name] = true
		}

		found, err := collectReferenced(all, definitions, next, lookup)
		if err != nil {
			return nil, err
		}
		queue = append(queue, found...)
		definitions = append(definitions, found...)
	}

	return Dedupe(definitions), nil
}

// collectReferenced returns the definitions referenced by def that are
// absent from the pool, resolving each against lookup.
func collectReferenced(all, definitions []Definition, def Definition, lookup map[string]Definition) ([]Definition, error) {
	c := &collector{pool: definitions, lookup: lookup}

	switch {
	case def.Directive != nil:
		// Directive definitions reference nothing that needs pulling in.
		return nil, nil

	case def.Type != nil:
		if err := c.directives(def.Type.Directives, fmt.Sprintf("type %q", def.Type.Name)); err != nil {
			return nil, err
		}
		if err := c.typeDefinition(all, def.Type); err != nil {
			return nil, err
		}

	case def.Schema != nil:
		if err := c.directives(def.Schema.Directives, "schema"); err != nil {
			return nil, err
		}
		for _, op := range def.Schema.OperationTypes {
			if err := c.namedType(op.Type, fmt.Sprintf("root operation %q", op.Operation)); err != nil {
				return nil, err
			}
		}

	case def.Operation != nil:
		if err := c.directives(def.Operation.Directives, fmt.Sprintf("operation %q", def.Operation.Name)); err != nil {
			return nil, err
		}
		if err := c.selections(def.Operation.SelectionSet); err != nil {
			return nil, err
		}

	case def.Fragment != nil:
		if err := c.directives(def.Fragment.Directives, fmt.Sprintf("fragment %q", def.Fragment.Name)); err != nil {
			return nil, err
		}
		if err := c.selections(def.Fragment.SelectionSet); err != nil {
			return nil, err
		}
	}

	return c.found, nil
}

type collector struct {
	pool   []Definition
	lookup map[string]Definition
	found  []Definition
}

func (c *collector) typeDefinition(all []Definition, node *language.Definition) error {
	switch node.Kind {
	case language.Enum:
		for _, v := range node.EnumValues {
			if err := c.directives(v.Directives, fmt.Sprintf("enum value %q", v.Name)); err != nil {
				return err
			}
		}

	case language.InputObject:
		for _, f := range node.Fields {
			if err := c.namedType(f.Type.Name(), fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
			if err := c.directives(f.Directives, fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
		}

	case language.Interface:
		for _, f := range node.Fields {
			if err := c.namedType(f.Type.Name(), fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
			if err := c.directives(f.Directives, fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
		}
		// Implementors never reference the interface's users, so pull in
		// every object type declaring this interface explicitly.
		for _, d := range all {
			if d.Type == nil || d.Type.Kind != language.Object {
				continue
			}
			for _, impl := range d.Type.Interfaces {
				if impl == node.Name {
					c.found = append(c.found, d)
					break
				}
			}
		}

	case language.Union:
		for _, member := range node.Types {
			if c.inPool(member) {
				continue
			}
			target, ok := c.lookup[member]
			if !ok {
				return &MissingDefinitionError{Name: member, Context: "union member"}
			}
			c.add(target)
		}

	case language.Object:
		for _, iface := range node.Interfaces {
			if c.inPool(iface) {
				continue
			}
			target, ok := c.lookup[iface]
			if !ok {
				return &MissingDefinitionError{Name: iface, Context: "interface"}
			}
			c.add(target)
		}
		for _, f := range node.Fields {
			if err := c.namedType(f.Type.Name(), fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
			if err := c.directives(f.Directives, fmt.Sprintf("field %q", f.Name)); err != nil {
				return err
			}
			for _, arg := range f.Arguments {
				if err := c.namedType(arg.Type.Name(), fmt.Sprintf("argument %q", arg.Name)); err != nil {
					return err
				}
				if err := c.directives(arg.Directives, fmt.Sprintf("argument %q", arg.Name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// selections walks a selection set collecting fragment spread targets and
// the directives of any selection carrying a nested selection set.
func (c *collector) selections(set language.SelectionSet) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.FragmentSpread:
			if c.inPool(s.Name) {
				continue
			}
			target, ok := c.lookup[s.Name]
			if !ok {
				return &MissingDefinitionError{Name: s.Name, Context: "fragment spread"}
			}
			c.add(target)
		case *language.Field:
			if len(s.SelectionSet) > 0 {
				if err := c.directives(s.Directives, fmt.Sprintf("selection %q", s.Name)); err != nil {
					return err
				}
				if err := c.selections(s.SelectionSet); err != nil {
					return err
				}
			}
		case *language.InlineFragment:
			if len(s.SelectionSet) > 0 {
				if err := c.directives(s.Directives, "inline fragment"); err != nil {
					return err
				}
				if err := c.selections(s.SelectionSet); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *collector) namedType(name, context string) error {
	if IsBuiltinScalar(name) || c.inPool(name) {
		return nil
	}
	target, ok := c.lookup[name]
	if !ok {
		return &MissingDefinitionError{Name: name, Context: context}
	}
	c.add(target)
	return nil
}

func (c *collector) directives(list language.DirectiveList, context string) error {
	for _, d := range list {
		if IsBuiltinDirective(d.Name) || c.inPool(d.Name) {
			continue
		}
		target, ok := c.lookup[d.Name]
		if !ok {
			return &MissingDefinitionError{Name: d.Name, Context: fmt.Sprintf("%s: directive", context)}
		}
		c.add(target)
	}
	return nil
}

func (c *collector) inPool(name string) bool {
	for _, d := range c.pool {
		if d.Name() == name {
			return true
		}
	}
	for _, d := range c.found {
		if d.Name() == name {
			return true
		}
	}
	return false
}

func (c *collector) add(d Definition) {
	c.found = append(c.found, d)
}
