package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument           = ast.QueryDocument
	SchemaDocument          = ast.SchemaDocument
	Schema                  = ast.Schema
	SchemaDefinition        = ast.SchemaDefinition
	OperationDefinition     = ast.OperationDefinition
	OperationTypeDefinition = ast.OperationTypeDefinition
	SelectionSet            = ast.SelectionSet
	Selection               = ast.Selection
	Field                   = ast.Field
	InlineFragment          = ast.InlineFragment
	FragmentDefinition      = ast.FragmentDefinition
	FragmentSpread          = ast.FragmentSpread
	Directive               = ast.Directive
	DirectiveList           = ast.DirectiveList
	DirectiveDefinition     = ast.DirectiveDefinition
	ArgumentList            = ast.ArgumentList
	Argument                = ast.Argument
	Value                   = ast.Value
	FieldDefinition         = ast.FieldDefinition
	FieldList               = ast.FieldList
	ArgumentDefinition      = ast.ArgumentDefinition
	ArgumentDefinitionList  = ast.ArgumentDefinitionList
	EnumValueDefinition     = ast.EnumValueDefinition
	Type                    = ast.Type
	Definition              = ast.Definition
	DefinitionList          = ast.DefinitionList
	Source                  = ast.Source
	Position                = ast.Position
)

type DefinitionKind = ast.DefinitionKind

type Operation = ast.Operation

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription

	Object      DefinitionKind = ast.Object
	Interface   DefinitionKind = ast.Interface
	Union       DefinitionKind = ast.Union
	Scalar      DefinitionKind = ast.Scalar
	Enum        DefinitionKind = ast.Enum
	InputObject DefinitionKind = ast.InputObject
)
