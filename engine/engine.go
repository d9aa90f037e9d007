// Package engine wires the scan, parse, compile and execute stages
// into a single public entry point for embedding the language.
package engine

import (
	"emberscript/lexer"
	"emberscript/parser"
	"emberscript/runtime"
)

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	vmOpts  []runtime.Option
	globals map[string]runtime.Value
}

// WithMaxCallDepth bounds VM call recursion; see runtime.WithMaxCallDepth.
func WithMaxCallDepth(n int) Option {
	return func(c *engineConfig) { c.vmOpts = append(c.vmOpts, runtime.WithMaxCallDepth(n)) }
}

// WithTrace installs a per-instruction trace hook; see runtime.WithTrace.
func WithTrace(fn runtime.TraceFunc) Option {
	return func(c *engineConfig) { c.vmOpts = append(c.vmOpts, runtime.WithTrace(fn)) }
}

// WithGlobal pre-seeds a global binding before the first Eval — the
// way a host exposes a value to scripts without a builtin-library
// subsystem.
func WithGlobal(name string, v runtime.Value) Option {
	return func(c *engineConfig) {
		if c.globals == nil {
			c.globals = make(map[string]runtime.Value)
		}
		c.globals[name] = v
	}
}

// Engine is one embedding of the language: one global environment, one
// VM. An *Engine is safe to call Eval on repeatedly (later calls see
// globals earlier calls defined — this is what makes REPL-style usage
// work) but is not safe for concurrent use from multiple goroutines,
// because its global *runtime.Environment is shared, unlocked,
// mutable state.
type Engine struct {
	global *runtime.Environment
	vm     *runtime.VM
}

func New(opts ...Option) *Engine {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	global := runtime.NewEnvironment(nil)
	for name, v := range cfg.globals {
		global.Define(name, v)
	}
	return &Engine{
		global: global,
		vm:     runtime.New(global, cfg.vmOpts...),
	}
}

// Eval runs one fragment through scan, parse, compile and execute,
// returning the value of its last expression-statement (or Undefined
// for a fragment whose last statement is a declaration), or the first
// error any stage raised.
func (e *Engine) Eval(source string) (runtime.Value, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		se := err.(*lexer.SyntaxError)
		return nil, runtime.NewSyntaxError(se.Message, se.Line, se.Column)
	}

	prog, err := parser.New(tokens).ParseProgram()
	if err != nil {
		if se, ok := err.(*parser.SyntaxError); ok {
			return nil, runtime.NewSyntaxError(se.Message, se.Line, se.Column)
		}
		return nil, runtime.NewSyntaxError(err.Error(), 0, 0)
	}

	chunk, compErr := runtime.Compile(prog)
	if compErr != nil {
		return nil, compErr
	}

	result, execErr := e.vm.Execute(chunk)
	if execErr != nil {
		return nil, execErr
	}
	return result, nil
}
