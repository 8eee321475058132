package script

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/tliron/commonlog"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single navigate call.
const DefaultTimeout = time.Second

// NavigateFunc is the name of the Lua function a hook defines.
const NavigateFunc = "navigate"

// Hook is a loaded navigation script.
//
// The Lua state is not goroutine-safe; the mutex serializes every call.
type Hook struct {
	mu      sync.Mutex
	L       *lua.LState
	name    string
	timeout time.Duration
	log     commonlog.Logger
	closed  bool
}

// Option configures a Hook.
type Option func(*Hook)

// WithTimeout sets the limit for a single navigate call.
func WithTimeout(d time.Duration) Option {
	return func(h *Hook) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the logger used by storysource.log and print.
func WithLogger(log commonlog.Logger) Option {
	return func(h *Hook) {
		h.log = log
	}
}

// LoadFile runs the script at path and returns its hook.
func LoadFile(path string, opts ...Option) (*Hook, error) {
	h := newHook(path, opts)
	if err := h.do(func() error { return h.L.DoFile(path) }); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return h, nil
}

// LoadString runs code and returns its hook. name labels errors and logs.
func LoadString(name, code string, opts ...Option) (*Hook, error) {
	h := newHook(name, opts)
	if err := h.do(func() error { return h.L.DoString(code) }); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return h, nil
}

func newHook(name string, opts []Option) *Hook {
	h := &Hook{
		name:    name,
		timeout: DefaultTimeout,
		log:     commonlog.GetLogger("storysource.script"),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(h.L)
	lua.OpenTable(h.L)
	lua.OpenString(h.L)
	lua.OpenMath(h.L)
	h.L.SetTop(0)

	for _, global := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		h.L.SetGlobal(global, lua.LNil)
	}
	h.L.SetGlobal("print", h.L.NewFunction(h.luaLog))
	h.L.SetGlobal("storysource", h.L.SetFuncs(h.L.NewTable(), map[string]lua.LGFunction{
		"log":      h.luaLog,
		"story_id": luaStoryID,
	}))
	return h
}

// Defined reports whether the script defines a navigate function.
func (h *Hook) Defined() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	return h.L.GetGlobal(NavigateFunc).Type() == lua.LTFunction
}

// Navigate calls navigate(group, item) and returns its result. A script
// without a navigate function, or one returning nil, yields "".
func (h *Hook) Navigate(ctx context.Context, group, item string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", ErrHookClosed
	}

	fn := h.L.GetGlobal(NavigateFunc)
	if fn.Type() != lua.LTFunction {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	var ret lua.LValue
	err := h.do(func() error {
		if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(group), lua.LString(item)); err != nil {
			return err
		}
		ret = h.L.Get(-1)
		h.L.Pop(1)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", h.name, NavigateFunc, err)
	}

	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case *lua.LNilType:
		return "", nil
	default:
		return "", fmt.Errorf("%s: %w (got %s)", h.name, ErrBadResult, ret.Type())
	}
}

// Close releases the Lua state. It is safe to call more than once.
func (h *Hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.L.Close()
	return nil
}

// do runs fn, turning a panic in the Lua runtime into an error.
func (h *Hook) do(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

func (h *Hook) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.log.Infof("%s: %s", h.name, strings.Join(parts, " "))
	return 0
}

func luaStoryID(L *lua.LState) int {
	L.Push(lua.LString(StoryID(L.CheckString(1), L.CheckString(2))))
	return 1
}

// StoryID returns the story id for a group and item, such as
// "button--with-text" for Button and "with text".
func StoryID(group, item string) string {
	return sanitize(group) + "--" + sanitize(item)
}

func sanitize(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	return sb.String()
}
