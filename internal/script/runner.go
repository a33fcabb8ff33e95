package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Module registers a Lua API table.
type Module interface {
	Name() string
	Register(L *lua.LState) error
}

// Context is the state shared by the API modules during one run.
type Context struct {
	Engine *engine.Engine

	edits   int
	last    error
	lastMsg string
}

// raise records err as the cause of the pending Lua error and raises it.
func (c *Context) raise(L *lua.LState, op string, err error) {
	c.last = err
	c.lastMsg = fmt.Sprintf("%s: %v", op, err)
	L.RaiseError("%s", c.lastMsg)
}

// cause returns the engine error behind msg, if msg was raised by a module.
func (c *Context) cause(msg string) error {
	if c.last != nil && strings.HasSuffix(msg, c.lastMsg) {
		return c.last
	}
	return nil
}

// Runner executes Lua edit scripts against an engine.
type Runner struct {
	engine  *engine.Engine
	logger  *diag.Logger
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger routes the Lua print function to logger.
func WithLogger(logger *diag.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTimeout sets the maximum run time of a script. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner for e.
func NewRunner(e *engine.Engine, opts ...Option) (*Runner, error) {
	if e == nil {
		return nil, ErrNilEngine
	}
	r := &Runner{
		engine:  e,
		logger:  diag.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.Run(ctx, filepath.Base(path), f)
}

// RunString executes code under the chunk name "script".
func (r *Runner) RunString(ctx context.Context, code string) (int, error) {
	return r.Run(ctx, "script", strings.NewReader(code))
}

// Run executes a script read from src. It returns the number of edits
// applied before the script finished or failed. Edits made before a
// failure are kept. Failures are reported as *ScriptError.
func (r *Runner) Run(ctx context.Context, name string, src io.Reader) (int, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibraries(L)
	r.installPrint(L)

	sctx := &Context{Engine: r.engine}
	modules := []Module{
		NewBufferModule(sctx),
		NewCursorModule(sctx),
	}
	for _, m := range modules {
		if err := m.Register(L); err != nil {
			return 0, fmt.Errorf("register %s: %w", m.Name(), err)
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	L.SetContext(ctx)

	fn, err := L.Load(src, name)
	if err != nil {
		return 0, newScriptError(err)
	}

	err = doWithRecovery(func() error {
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
	if err != nil {
		se := newScriptError(err)
		if cause := sctx.cause(se.Message); cause != nil {
			se.Err = cause
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			se.Err = ctxErr
		}
		return sctx.edits, se
	}

	r.logger.Debug("script %s applied %d edits", name, sctx.edits)
	return sctx.edits, nil
}

func (r *Runner) installPrint(L *lua.LState) {
	logger := r.logger
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// openSafeLibraries opens the base, table, string and math libraries and
// removes the functions that load code from outside the script.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
