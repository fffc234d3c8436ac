package pool

// Scalar types that never require a definition in the pool.
var builtinScalars = map[string]bool{
	"String":  true,
	"Float":   true,
	"Int":     true,
	"Boolean": true,
	"ID":      true,
	"Upload":  true,
}

// Directives that never require a definition in the pool. Beyond the
// GraphQL built-ins this covers the directives commonly injected by
// servers and federation gateways.
var builtinDirectives = map[string]bool{
	"deprecated":   true,
	"skip":         true,
	"include":      true,
	"cacheControl": true,
	"key":          true,
	"external":     true,
	"requires":     true,
	"provides":     true,
	"connection":   true,
	"client":       true,
}

// IsBuiltinScalar reports whether name is a scalar that needs no definition.
func IsBuiltinScalar(name string) bool { return builtinScalars[name] }

// IsBuiltinDirective reports whether name is a directive that needs no
// definition.
func IsBuiltinDirective(name string) bool { return builtinDirectives[name] }
