package script

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned by the script runner.
var (
	// ErrNilEngine indicates a runner was created without an engine.
	ErrNilEngine = errors.New("script: nil engine")

	// ErrPanic indicates the Lua VM panicked.
	ErrPanic = errors.New("script: lua panic")
)

// ScriptError reports a failed script with the Lua source line.
type ScriptError struct {
	// Line is the 1-based script line, or 0 when unknown.
	Line int

	// Message is the Lua error message without its location prefix.
	Message string

	// Err is the engine error that caused the failure, or the Lua error.
	Err error
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("script line %d: %s", e.Line, e.Message)
	}
	return "script: " + e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

var (
	// runtime errors: "name:12: message"
	runtimeLine = regexp.MustCompile(`^[^:\n]*:(\d+):\s*`)
	// syntax errors: "name line:12(column:3) near 'x': message"
	syntaxLine = regexp.MustCompile(`line:(\d+)`)
)

// newScriptError converts a Lua failure into a ScriptError.
func newScriptError(err error) *ScriptError {
	se := &ScriptError{Err: err}

	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}

	if m := runtimeLine.FindStringSubmatch(msg); m != nil {
		se.Line, _ = strconv.Atoi(m[1])
		msg = msg[len(m[0]):]
	} else if m := syntaxLine.FindStringSubmatch(msg); m != nil {
		se.Line, _ = strconv.Atoi(m[1])
	}
	se.Message = strings.TrimSpace(msg)
	return se
}
