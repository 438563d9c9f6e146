package attributes

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mrzor/proton-handler/internal/procmeta"
	"github.com/mrzor/proton-handler/internal/procscan"
)

// Filter decides whether a candidate process may be used for discovery.
// A nil Filter accepts every candidate.
type Filter struct {
	expression string
	program    *vm.Program
}

// NewFilter compiles expression. An empty expression returns a nil Filter.
func NewFilter(expression string) (*Filter, error) {
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression, expr.Env(newEnv(procscan.Handle{}, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile match expression %q: %w", expression, err)
	}

	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expression
}

// Allow evaluates the filter for one candidate.
func (f *Filter) Allow(h procscan.Handle, metadata *procmeta.ProcessMetadata) (bool, error) {
	if f == nil {
		return true, nil
	}

	output, err := expr.Run(f.program, newEnv(h, metadata))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate match expression for PID %d: %w", h.PID, err)
	}

	allowed, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("match expression returned %T, want bool", output)
	}
	return allowed, nil
}

// newEnv builds the evaluation environment. A nil metadata yields empty values
// with the right types for compilation.
func newEnv(h procscan.Handle, metadata *procmeta.ProcessMetadata) map[string]interface{} {
	if metadata == nil {
		metadata = &procmeta.ProcessMetadata{
			Environ: map[string]string{},
			Args:    []string{},
		}
	}
	return map[string]interface{}{
		"env":     metadata.Environ,
		"args":    metadata.Args,
		"cmdline": metadata.CmdlineFull,
		"pid":     int(h.PID),
		"name":    h.Name,
	}
}
