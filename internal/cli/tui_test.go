package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cmdtower/pkg/chain"
	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

func testLayout(t *testing.T) *layout.Layout {
	t.Helper()
	c := &chain.Chain{Name: "demo"}
	for _, text := range []string{"say a", "say b", "say c", "say d", "say e", "say f", "say g", "say h"} {
		c.Commands = append(c.Commands, chain.Command{Text: text, Mode: chain.ModeChain})
	}
	c.Commands[0].Mode = chain.ModeImpulse
	l, err := layout.Place(t.Context(), c, coord.Of(0, 0, 0), coord.Of(4, 4, 4), coord.DefaultOrientation, nil)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	return l
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestLayerViewNavigation(t *testing.T) {
	l := testLayout(t)
	var m tea.Model = NewLayerViewModel(l)

	if got := len(m.(LayerViewModel).Layers); got != 2 {
		t.Fatalf("layers = %d, want 2", got)
	}

	m = press(m, "left")
	if got := m.(LayerViewModel).Current; got != 0 {
		t.Errorf("left at bottom: Current = %d, want 0", got)
	}

	m = press(m, "down")
	m = press(m, "down")
	if got := m.(LayerViewModel).Cursor; got != 2 {
		t.Errorf("Cursor = %d, want 2", got)
	}
	m = press(m, "up")
	if got := m.(LayerViewModel).Cursor; got != 1 {
		t.Errorf("Cursor = %d, want 1", got)
	}

	m = press(m, "right")
	vm := m.(LayerViewModel)
	if vm.Current != 1 || vm.Cursor != 0 {
		t.Errorf("after right: Current=%d Cursor=%d, want 1 and 0", vm.Current, vm.Cursor)
	}
	m = press(m, "right")
	if got := m.(LayerViewModel).Current; got != 1 {
		t.Errorf("right at top: Current = %d, want 1", got)
	}

	m = press(m, "i")
	if !m.(LayerViewModel).Indices {
		t.Error("i should toggle indices on")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestLayerViewRender(t *testing.T) {
	l := testLayout(t)
	view := NewLayerViewModel(l).View()

	for _, s := range []string{"demo", "y = 0", "[1/2]", "say a"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q:\n%s", s, view)
		}
	}
}

func TestLayerViewEmpty(t *testing.T) {
	l := &layout.Layout{Name: "empty"}
	view := NewLayerViewModel(l).View()
	if !strings.Contains(view, "empty layout") {
		t.Errorf("view = %q, want empty notice", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
