// Package filter evaluates user supplied expressions against search results.
//
// Expressions use the expr language (https://expr-lang.org). Item fields are
// exposed as variables (Title, Category, Size, SizeGB, Published, Attrs, ...)
// alongside helpers such as hasAttr, attrInt, hasCategory and daysSince.
//
//	Size > 2 * GB and attrInt("grabs") >= 10
//	icontains(Title, "1080p") and age() < 7
package filter

import (
	"github.com/cleverdevil/nz/newznab"
)

var defaultCompiler = NewExprCompiler()

// CompileFilter compiles an expression with the default compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Apply returns the items f matches, preserving their order. The first
// evaluation failure aborts the whole pass.
func Apply(f Filter, items []newznab.Item) ([]newznab.Item, error) {
	matches := make([]newznab.Item, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, nil
}
