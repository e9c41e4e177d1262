package plugin

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// fakePlugin is a minimal Plugin for registry tests.
type fakePlugin struct {
	id        string
	initErr   error
	initPanic bool
	started   bool
	stopped   bool
	focused   bool
}

func (f *fakePlugin) ID() string   { return f.id }
func (f *fakePlugin) Name() string { return f.id }
func (f *fakePlugin) Icon() string { return "" }

func (f *fakePlugin) Init(ctx *Context) error {
	if f.initPanic {
		panic("init exploded")
	}
	return f.initErr
}

func (f *fakePlugin) Start() tea.Cmd {
	f.started = true
	return func() tea.Msg { return nil }
}

func (f *fakePlugin) Stop() { f.stopped = true }

func (f *fakePlugin) Update(msg tea.Msg) (Plugin, tea.Cmd) { return f, nil }
func (f *fakePlugin) View(width, height int) string { return "" }
func (f *fakePlugin) IsFocused() bool { return f.focused }
func (f *fakePlugin) SetFocused(v bool) { f.focused = v }
func (f *fakePlugin) Commands() []Command { return nil }
func (f *fakePlugin) FocusContext() string { return f.id }

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	p := &fakePlugin{id: "alpha"}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if got := r.Get("alpha"); got != p {
		t.Fatalf("Get(alpha) = %v, want the registered plugin", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Fatalf("Get(missing) = %v, want nil", got)
	}
	if n := len(r.Plugins()); n != 1 {
		t.Fatalf("Plugins() returned %d plugins, want 1", n)
	}
}

func TestRegistryInitFailureIsSilent(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if err := r.Register(&fakePlugin{id: "broken", initErr: errors.New("no socket")}); err != nil {
		t.Fatalf("Register should degrade silently, got error: %v", err)
	}

	if got := r.Get("broken"); got != nil {
		t.Fatal("failed plugin should not be registered")
	}
	if reason, ok := r.Unavailable()["broken"]; !ok || reason != "no socket" {
		t.Fatalf("Unavailable()[broken] = %q, %v", reason, ok)
	}
}

func TestRegistryInitPanicIsRecovered(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if err := r.Register(&fakePlugin{id: "panicky", initPanic: true}); err != nil {
		t.Fatalf("Register should recover panics, got error: %v", err)
	}
	if got := r.Get("panicky"); got != nil {
		t.Fatal("panicking plugin should not be registered")
	}
	if _, ok := r.Unavailable()["panicky"]; !ok {
		t.Fatal("panicking plugin should be marked unavailable")
	}
}

func TestRegistryStartAndStop(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	a := &fakePlugin{id: "a"}
	b := &fakePlugin{id: "b"}
	_ = r.Register(a)
	_ = r.Register(b)

	cmds := r.Start()
	if len(cmds) != 2 {
		t.Fatalf("Start returned %d commands, want 2", len(cmds))
	}
	if !a.started || !b.started {
		t.Fatal("both plugins should be started")
	}

	r.Stop()
	if !a.stopped || !b.stopped {
		t.Fatal("both plugins should be stopped")
	}
}
