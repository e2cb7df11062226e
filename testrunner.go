package pimapper

import (
	"encoding/json"
	"errors"
	"fmt"
)

// testStep is one action of a test script.
type testStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Mode    string  `json:"mode,omitempty"`
	Surface string  `json:"surface,omitempty"`
	Index   int     `json:"index,omitempty"`
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input, editor commands and screenshots across
// frames for automated runs. Attach it with Mapper.SetTestRunner.
//
// Actions: click, drag, wait, screenshot, mode, add, select, remove, save.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "click", "drag", "wait", "screenshot", "select", "remove", "save":
		return nil
	case "mode":
		_, err := ParseMode(st.Mode)
		return err
	case "add":
		if st.Surface != "triangle" && st.Surface != "quad" {
			return &ValidationError{Field: "surface", Reason: fmt.Sprintf("unknown %q", st.Surface)}
		}
		return nil
	default:
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown %q", st.Action)}
	}
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the errors of failed steps, joined.
func (r *TestRunner) Err() error {
	return errors.Join(r.errs...)
}

// step runs at most one action per frame. Called from Mapper.Update.
func (r *TestRunner) step(m *Mapper) {
	if r.done {
		return
	}
	if m.pendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "screenshot":
		m.Screenshot(st.Label)
	case "click":
		m.InjectClick(st.X, st.Y)
	case "drag":
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "mode":
		var mode Mode
		if mode, err = ParseMode(st.Mode); err == nil {
			err = m.SetMode(mode)
		}
	case "add":
		kind := SurfaceTriangle
		if st.Surface == "quad" {
			kind = SurfaceQuad
		}
		_, err = m.AddSurface(kind, SurfaceOptions{})
	case "select":
		err = m.editor.SelectSurface(st.Index)
	case "remove":
		m.editor.RemoveSelectedSurface()
	case "save":
		err = m.SaveLayout()
	}
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && m.pendingInjections() == 0 {
		r.done = true
	}
}
