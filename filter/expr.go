package filter

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cleverdevil/nz/datefmt"
	"github.com/cleverdevil/nz/newznab"
)

// Size units available to expressions, e.g. `Size > 2 * GB`.
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	env        func(newznab.Item) map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithClock replaces time.Now in date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		if now != nil {
			c.now = now
		}
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	now         func() time.Time
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	env := c.environment(newznab.Item{})
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(), // unknown names evaluate to nil
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &exprFilter{
		expression: expression,
		program:    program,
		env:        c.environment,
	}, nil
}

// Match evaluates the filter against an item
func (f *exprFilter) Match(item newznab.Item) (bool, error) {
	result, err := expr.Run(f.program, f.env(item))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ItemTitle:  item.Title,
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment builds the variables and helpers visible to an expression
func (c *exprCompiler) environment(item newznab.Item) map[string]any {
	env := make(map[string]any, 48)
	addHelperFunctions(env, c.now)
	maps.Copy(env, c.helperFuncs)

	published, _ := datefmt.Parse(item.PubDate)
	id, _ := item.ID()

	env["Item"] = item
	env["Title"] = item.Title
	env["Category"] = item.Category()
	env["Categories"] = item.Categories
	env["Size"] = item.Size
	env["SizeGB"] = float64(item.Size) / GB
	env["GUID"] = item.GUID
	env["ID"] = id
	env["Link"] = item.Link
	env["Published"] = published
	env["Attrs"] = item.Attrs

	env["hasAttr"] = createHasAttrFunc(item.Attrs)
	env["attr"] = createAttrFunc(item.Attrs)
	env["attrInt"] = createAttrIntFunc(item.Attrs)
	env["hasCategory"] = createHasCategoryFunc(item.Categories)
	env["age"] = createAgeFunc(published, c.now)

	return env
}

// addHelperFunctions adds the item independent helpers
func addHelperFunctions(env map[string]any, now func() time.Time) {
	env["KB"] = int64(KB)
	env["MB"] = int64(MB)
	env["GB"] = int64(GB)

	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(now().Sub(t).Hours() / 24)
	}
	env["hoursAgo"] = func(hours int) time.Time {
		return now().Add(-time.Duration(hours) * time.Hour)
	}
	env["daysAgo"] = func(days int) time.Time {
		return now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := datefmt.Parse(dateStr)
		return t
	}
	// Case-insensitive string helpers; contains, startsWith and endsWith
	// are already operators of the language.
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = now
}

func createHasAttrFunc(attrs map[string]string) func(string) bool {
	return func(name string) bool {
		_, ok := attrs[name]
		return ok
	}
}

func createAttrFunc(attrs map[string]string) func(string) string {
	return func(name string) string {
		return attrs[name]
	}
}

func createAttrIntFunc(attrs map[string]string) func(string) int {
	return func(name string) int {
		n, _ := strconv.Atoi(attrs[name])
		return n
	}
}

func createHasCategoryFunc(categories []string) func(string) bool {
	lower := make([]string, len(categories))
	for i, category := range categories {
		lower[i] = strings.ToLower(category)
	}
	return func(category string) bool {
		return slices.Contains(lower, strings.ToLower(category))
	}
}

// createAgeFunc returns the age of the item in whole days, or -1 when its
// date could not be parsed
func createAgeFunc(published time.Time, now func() time.Time) func() int {
	return func() int {
		if published.IsZero() {
			return -1
		}
		return int(now().Sub(published).Hours() / 24)
	}
}
