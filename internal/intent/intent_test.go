package intent

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		text      string
		wantName  string
		wantScore int
	}{
		{"empty", "", "", 0},
		{"no match", "hello there", "", 0},
		{"ui wins on count", "The modal padding looks WRONG on mobile", "ui", 3},
		{"api", "api request returns 500 from the server", "api", 3},
		{"tie keeps first defined", "the checkout button is broken", "bug", 1},
		{"tie ui before feature", "add a button", "ui", 1},
		{"presence not frequency", "error error error error", "bug", 1},
		{"accessibility", "screen reader skips the aria label", "accessibility", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Detect(tt.text)
			if got.Name != tt.wantName || got.Score != tt.wantScore {
				t.Errorf("Detect(%q) = %s/%d, want %s/%d", tt.text, got.Name, got.Score, tt.wantName, tt.wantScore)
			}
			if got.Matched() != (tt.wantName != "") {
				t.Errorf("Matched() = %v", got.Matched())
			}
		})
	}
}

func TestDetectWith_TieBreakIsTableOrder(t *testing.T) {
	t.Parallel()
	table := []Definition{
		{Name: "first", Patterns: []*regexp.Regexp{regexp.MustCompile(`x`)}},
		{Name: "second", Patterns: []*regexp.Regexp{regexp.MustCompile(`x`)}},
	}
	for i := 0; i < 20; i++ {
		if got := DetectWith(table, "x"); got.Name != "first" {
			t.Fatalf("DetectWith = %q, want first", got.Name)
		}
	}
}

func TestPresetToggles_Complete(t *testing.T) {
	t.Parallel()
	for _, p := range Presets {
		ts := PresetToggles(p)
		if len(ts) != len(AllToggles) {
			t.Errorf("preset %s defines %d toggles, want %d", p, len(ts), len(AllToggles))
		}
	}
	if got := PresetToggles(PresetFull).Enabled(); len(got) != len(AllToggles) {
		t.Errorf("full enables %d toggles", len(got))
	}
	want := []Toggle{ToggleRoute, ToggleSelection, ToggleErrors}
	if diff := cmp.Diff(want, PresetToggles(PresetMinimal).Enabled()); diff != "" {
		t.Errorf("minimal mismatch (-want +got):\n%s", diff)
	}
}

func TestToggles_ApplyReplacesPresentKeys(t *testing.T) {
	t.Parallel()
	cur := Toggles{ToggleDOMSnapshot: true, ToggleViewport: true}
	got := cur.Apply(Toggles{ToggleDOMSnapshot: false, ToggleRoute: true})
	if got.On(ToggleDOMSnapshot) || !got.On(ToggleViewport) || !got.On(ToggleRoute) {
		t.Errorf("Apply = %v", got)
	}
	if !cur.On(ToggleDOMSnapshot) {
		t.Error("Apply mutated the receiver")
	}
}

func TestAutoToggles_UnionsBaseAndIntent(t *testing.T) {
	t.Parallel()
	ts, res := AutoToggles("the page crashes with an exception")
	if res.Name != "bug" {
		t.Fatalf("intent = %q, want bug", res.Name)
	}
	for _, want := range append(append([]Toggle{}, AutoBase...), res.Toggles...) {
		if !ts.On(want) {
			t.Errorf("toggle %s off", want)
		}
	}
	if ts.On(ToggleAccessibility) {
		t.Error("unrelated toggle on")
	}

	base, res := AutoToggles("")
	if res.Matched() {
		t.Errorf("empty text matched %q", res.Name)
	}
	if diff := cmp.Diff(AutoBase, base.Enabled()); diff != "" {
		t.Errorf("auto base mismatch (-want +got):\n%s", diff)
	}
}

func TestSelector_Dismissal(t *testing.T) {
	t.Parallel()
	s := NewSelector()
	text := "button color looks off"

	sel := s.Evaluate(text)
	if sel.Preset != PresetAuto || sel.Intent.Name != "ui" {
		t.Fatalf("Evaluate = %+v", sel)
	}

	s.Dismiss(text)
	for i := 0; i < 3; i++ {
		sel = s.Evaluate(text)
		if !sel.Dismissed || sel.Preset != PresetMinimal {
			t.Fatalf("dismissed Evaluate = %+v", sel)
		}
		if diff := cmp.Diff(PresetToggles(PresetMinimal), sel.Toggles); diff != "" {
			t.Errorf("dismissed toggles mismatch (-want +got):\n%s", diff)
		}
	}

	sel = s.Evaluate(text + "!")
	if sel.Dismissed || sel.Preset != PresetAuto {
		t.Errorf("changed text should resume auto, got %+v", sel)
	}
	// Returning to the dismissed text does not restore the dismissal.
	if sel = s.Evaluate(text); sel.Dismissed {
		t.Error("dismissal restored")
	}
}

func TestSelector_ExplicitPreset(t *testing.T) {
	t.Parallel()
	s := NewSelector()
	s.SetPreset(PresetFull)
	sel := s.Evaluate("button color")
	if sel.Preset != PresetFull || sel.Intent.Matched() {
		t.Errorf("Evaluate = %+v", sel)
	}
	if len(sel.Toggles.Enabled()) != len(AllToggles) {
		t.Error("full preset not fully enabled")
	}

	s.Dismiss("x")
	s.SetPreset(PresetBug)
	if sel := s.Evaluate("x"); sel.Dismissed || sel.Preset != PresetBug {
		t.Errorf("SetPreset should clear dismissal, got %+v", sel)
	}
}

func TestParsePreset(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Preset{"": PresetAuto, "BUG": PresetBug, " ui ": PresetUI} {
		got, err := ParsePreset(in)
		if err != nil || got != want {
			t.Errorf("ParsePreset(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePreset("everything"); err == nil {
		t.Error("ParsePreset(unknown) error = nil")
	}
}
