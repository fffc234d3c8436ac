package language

import (
	"io"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(name, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func FormatSchemaDocument(w io.Writer, doc *SchemaDocument) {
	formatter.NewFormatter(w).FormatSchemaDocument(doc)
}

func FormatQueryDocument(w io.Writer, doc *QueryDocument) {
	formatter.NewFormatter(w).FormatQueryDocument(doc)
}

func FormatSchema(w io.Writer, schema *Schema) {
	formatter.NewFormatter(w).FormatSchema(schema)
}
