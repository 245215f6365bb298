// selector.go — Preset selection with live auto-detection and dismissal.
package intent

import "sync"

// Selection is the effective toggle state for one input text.
type Selection struct {
	Preset    Preset  `json:"preset"`
	Intent    Result  `json:"intent"`
	Toggles   Toggles `json:"toggles"`
	Dismissed bool    `json:"dismissed,omitempty"`
}

// Selector tracks the chosen preset and any dismissal of auto-detection.
type Selector struct {
	mu            sync.Mutex
	preset        Preset
	dismissed     bool
	dismissedText string
}

// NewSelector starts on the auto preset.
func NewSelector() *Selector {
	return &Selector{preset: PresetAuto}
}

// Preset returns the chosen preset.
func (s *Selector) Preset() Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preset
}

// SetPreset chooses a preset and clears any dismissal.
func (s *Selector) SetPreset(p Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = p
	s.dismissed = false
	s.dismissedText = ""
}

// Dismiss forces the minimal preset until the text differs from text.
func (s *Selector) Dismiss(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = true
	s.dismissedText = text
}

// Evaluate returns the effective toggles for text. A dismissal ends the
// first time text differs from the dismissed string.
func (s *Selector) Evaluate(text string) Selection {
	s.mu.Lock()
	if s.dismissed && text != s.dismissedText {
		s.dismissed = false
		s.dismissedText = ""
	}
	dismissed, preset := s.dismissed, s.preset
	s.mu.Unlock()

	if dismissed {
		return Selection{Preset: PresetMinimal, Toggles: PresetToggles(PresetMinimal), Dismissed: true}
	}
	if preset != PresetAuto {
		return Selection{Preset: preset, Toggles: PresetToggles(preset)}
	}
	ts, res := AutoToggles(text)
	return Selection{Preset: PresetAuto, Intent: res, Toggles: ts}
}
