package arixtree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// errScriptQuit is returned by Game.Update when a script asks to quit. It
// unwraps to ebiten.Termination so RunGame exits cleanly.
var errScriptQuit = fmt.Errorf("script finished: %w", ebiten.Termination)

// ScriptRunner sequences toggles, waits and screenshots across frames for
// unattended visual checks. Attach it to a Game via SetScript.
//
//	{"steps": [
//	  {"action": "wait", "frames": 180},
//	  {"action": "screenshot", "label": "tree"},
//	  {"action": "toggle"},
//	  {"action": "wait", "frames": 240},
//	  {"action": "screenshot", "label": "scattered"},
//	  {"action": "quit"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	quit      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "toggle", "wait", "screenshot", "quit":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// LoadScriptFile reads and parses a JSON script file.
func LoadScriptFile(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return LoadScript(data)
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// scriptTarget is what a script step acts on.
type scriptTarget interface {
	Toggle() TreeState
	Screenshot(label string)
}

// step advances the runner by one frame. It returns errScriptQuit once a
// quit step has run.
func (r *ScriptRunner) step(t scriptTarget) error {
	if r.quit {
		return errScriptQuit
	}
	if r.done {
		return nil
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "toggle":
		t.Toggle()
	case "screenshot":
		t.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		// Exit on the next frame so a screenshot queued just before is drawn.
		r.quit = true
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}
