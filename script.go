package balloon

import (
	"encoding/json"
	"fmt"
	"os"
)

// scriptStep represents a single action in a demo script.
type scriptStep struct {
	Action  string `json:"action"`
	Text    string `json:"text,omitempty"`
	Spacing string `json:"spacing,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
	Frames  int    `json:"frames,omitempty"`
}

// demoScript is the top-level JSON structure for a demo script.
type demoScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences stage operations across frames for automated demos
// and recordings: type text, wait, switch modes, export. Call Step once per
// frame after Stage.Update.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON demo script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script demoScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// LoadScriptFile reads and parses a JSON demo script from disk.
func LoadScriptFile(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return LoadScript(data)
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the script by one frame, executing the next step unless a
// wait is counting down. Unknown actions are skipped with a warning so a
// newer script keeps running on an older engine.
func (r *ScriptRunner) Step(st *Stage) {
	if r.done {
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

	step := r.steps[r.cursor]
	r.cursor++

	switch step.Action {
	case "type":
		st.SetText(step.Text)
	case "append":
		st.SetText(st.Text() + step.Text)
	case "clear":
		st.Clear()
	case "replay":
		st.Replay()
	case "spacing":
		switch step.Spacing {
		case "automatic":
			st.SetSpacing(SpacingAutomatic)
		case "manual":
			st.SetSpacing(SpacingManual)
		case "random":
			st.SetSpacing(SpacingRandom)
		default:
			fmt.Fprintf(os.Stderr, "[balloon] script: unknown spacing %q\n", step.Spacing)
		}
	case "clock":
		st.SetClockMode(step.Enabled)
	case "squish":
		st.Settings().Squish.Enabled = step.Enabled
	case "export_gltf":
		if err := st.ExportGLTF(step.Path); err != nil {
			fmt.Fprintf(os.Stderr, "[balloon] script: %v\n", err)
		}
	case "wait":
		if step.Frames > 0 {
			r.waitCount = step.Frames - 1 // this frame counts as one
		}
	default:
		fmt.Fprintf(os.Stderr, "[balloon] script: unknown action %q\n", step.Action)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
