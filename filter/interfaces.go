package filter

import (
	"github.com/cleverdevil/nz/newznab"
)

// Filter defines the basic interface for result filters
type Filter interface {
	// Match checks if an item matches the filter criteria
	Match(item newznab.Item) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
