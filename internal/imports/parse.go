package imports

import (
	"fmt"
	"regexp"
	"strings"
)

// RawModule is one parsed import line. Imports is either ["*"] for a
// whole-file import or a list of "Type" / "Type.field" tokens.
type RawModule struct {
	Imports []string
	From    string
}

// Render writes the module back as an import comment line.
func (m RawModule) Render() string {
	return fmt.Sprintf("# import %s from %q", strings.Join(m.Imports, ", "), m.From)
}

// Equal reports whether two modules select the same imports from the same
// file.
func (m RawModule) Equal(other RawModule) bool {
	if m.From != other.From || len(m.Imports) != len(other.Imports) {
		return false
	}
	for i := range m.Imports {
		if m.Imports[i] != other.Imports[i] {
			return false
		}
	}
	return true
}

var (
	importFromRe = regexp.MustCompile(`^import\s+(\*|[^"']+?)\s+from\s+(?:"([^"]+)"|'([^']+)');?\s*$`)
	importBareRe = regexp.MustCompile(`^import\s+(?:"([^"]+)"|'([^']+)');?\s*$`)
)

// ParseImportLine parses a single import statement with the leading comment
// marker already stripped. `import "<file>"` is shorthand for
// `import * from "<file>"`.
func ParseImportLine(line string) (RawModule, error) {
	if m := importFromRe.FindStringSubmatch(line); m != nil {
		from := m[2]
		if from == "" {
			from = m[3]
		}
		list := strings.TrimSpace(m[1])
		if list == "*" {
			return RawModule{Imports: []string{"*"}, From: from}, nil
		}
		var imports []string
		for _, tok := range strings.Split(list, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				return RawModule{}, invalidImportLine(line)
			}
			imports = append(imports, tok)
		}
		return RawModule{Imports: imports, From: from}, nil
	}
	if m := importBareRe.FindStringSubmatch(line); m != nil {
		from := m[1]
		if from == "" {
			from = m[2]
		}
		return RawModule{Imports: []string{"*"}, From: from}, nil
	}
	return RawModule{}, invalidImportLine(line)
}

func invalidImportLine(line string) error {
	return fmt.Errorf("invalid import line %q: expected `import <Type>[, <Type.field>, ...] from \"<file>\"` or `import \"<file>\"`", line)
}

// ScanSDL extracts every import line from raw SDL text, in file order.
// Import lines are comment lines beginning with "# import" or "#import".
func ScanSDL(sdl string) ([]RawModule, error) {
	var modules []RawModule
	for _, line := range strings.Split(sdl, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "# import ") && !strings.HasPrefix(line, "#import ") {
			continue
		}
		m, err := ParseImportLine(strings.TrimSpace(strings.TrimPrefix(line, "#")))
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// HasImports reports whether the SDL text contains at least one import
// line, without parsing it.
func HasImports(sdl string) bool {
	for _, line := range strings.Split(sdl, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# import ") || strings.HasPrefix(line, "#import ") {
			return true
		}
	}
	return false
}

// IsEmptySDL reports whether the text contains only blank and comment
// lines.
func IsEmptySDL(sdl string) bool {
	for _, line := range strings.Split(sdl, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}
	return true
}
