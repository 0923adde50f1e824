package filter

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/samber/lo"

	"github.com/s0up4200/tvdb-fetch/tvdb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression  string
	program     *vm.Program
	customFuncs map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.customFuncs, funcs)
	}
}

// ExprCompiler compiles boolean expr-lang expressions evaluated against shows
type ExprCompiler struct {
	customFuncs map[string]any
	cache       *programCache
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		customFuncs: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression with a shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles an expression into an executable filter
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// An empty show gives the checker the helper signatures; record fields stay undefined
	program, err := expr.Compile(expression,
		expr.Env(c.environment(tvdb.Show{})),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression:  expression,
		program:     program,
		customFuncs: c.customFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

func (c *ExprCompiler) environment(show tvdb.Show) map[string]any {
	return newEnvironment(show, c.customFuncs)
}

// Match evaluates the filter against a show
func (f *exprFilter) Match(show tvdb.Show) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(show, f.customFuncs))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, ShowName: show.Title(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			ShowName:   show.Title(),
			Err:        fmt.Errorf("expected bool, got %T", result),
		}
	}
	return matched, nil
}

// Evaluate reports whether the show matches. Use Match to see evaluation errors.
func (f *exprFilter) Evaluate(show tvdb.Show) bool {
	matched, err := f.Match(show)
	return err == nil && matched
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// Apply returns the shows matching filter, in input order.
// It stops at the first show the filter cannot be evaluated against.
func Apply(filter CompiledFilter, shows []tvdb.Show) ([]tvdb.Show, error) {
	matches := make([]tvdb.Show, 0, len(shows))
	for _, show := range shows {
		matched, err := filter.Match(show)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, show)
		}
	}
	return matches, nil
}

// newEnvironment exposes the projected show fields as top-level variables alongside
// the helper functions. Helpers win over a field with the same name.
func newEnvironment(show tvdb.Show, customFuncs map[string]any) map[string]any {
	env := make(map[string]any, len(show.Fields)+32)

	fields := normalizeRecord(show.Fields)
	maps.Copy(env, fields)

	addHelperFunctions(env)

	episodes := lo.Map(show.Episodes, func(episode tvdb.Record, _ int) map[string]any {
		return normalizeRecord(episode)
	})

	env["Name"] = show.ShowName
	env["Title"] = show.Title()
	env["Fields"] = fields
	env["Episodes"] = episodes

	env["episodeCount"] = func() int {
		return len(episodes)
	}
	env["seasonCount"] = func() int {
		seasons := lo.Uniq(lo.FilterMap(episodes, func(episode map[string]any, _ int) (string, bool) {
			season, ok := episode["airedSeason"]
			if !ok || season == nil {
				return "", false
			}
			return fmt.Sprint(season), true
		}))
		return len(seasons)
	}
	env["hasField"] = func(name string) bool {
		return show.Fields.Has(name)
	}
	env["field"] = func(name string) any {
		return fields[name]
	}
	env["hasEpisode"] = func(name string) bool {
		return lo.ContainsBy(show.Episodes, func(episode tvdb.Record) bool {
			return strings.EqualFold(episode.Text("episodeName"), name)
		})
	}
	env["hasAlias"] = func(alias string) bool {
		aliases, _ := fields["aliases"].([]any)
		return lo.ContainsBy(aliases, func(a any) bool {
			s, ok := a.(string)
			return ok && strings.EqualFold(s, alias)
		})
	}

	maps.Copy(env, customFuncs)

	return env
}

// addHelperFunctions adds the show independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(value any) time.Time {
		s, _ := value.(string)
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	// Case-insensitive string helpers. contains, startsWith and endsWith are
	// expr operators and stay case-sensitive.
	env["containsI"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// normalizeRecord converts json.Number values so expressions compare them as numbers
func normalizeRecord(record tvdb.Record) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		return lo.Map(val, func(item any, _ int) any {
			return normalizeValue(item)
		})
	case map[string]any:
		return normalizeRecord(val)
	case tvdb.Record:
		return normalizeRecord(val)
	default:
		return v
	}
}
