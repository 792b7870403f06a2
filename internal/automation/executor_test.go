package automation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/plan"
	"deskpilot/internal/store"
)

type fakeLocator struct {
	found map[string]Location
	hints map[string]string
	err   error
}

func (f *fakeLocator) Locate(target, hint string) (Location, error) {
	if f.hints == nil {
		f.hints = make(map[string]string)
	}
	f.hints[target] = hint
	if f.err != nil {
		return Location{}, f.err
	}
	loc, ok := f.found[target]
	if !ok {
		return Location{Found: false}, nil
	}
	return loc, nil
}

type fakeActuator struct {
	calls   []string
	failOn  string
	panicOn string
}

func (f *fakeActuator) record(call string) error {
	if f.panicOn != "" && strings.HasPrefix(call, f.panicOn) {
		panic("actuator blew up")
	}
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return errors.New("actuator refused")
	}
	return nil
}

func (f *fakeActuator) MinimizeAll() error          { return f.record("minimize") }
func (f *fakeActuator) Launch(app string) error     { return f.record("launch:" + app) }
func (f *fakeActuator) Click(x, y int) error        { return f.record(fmt.Sprintf("click:%d,%d", x, y)) }
func (f *fakeActuator) DoubleClick(x, y int) error  { return f.record(fmt.Sprintf("double:%d,%d", x, y)) }
func (f *fakeActuator) RightClick(x, y int) error   { return f.record(fmt.Sprintf("right:%d,%d", x, y)) }
func (f *fakeActuator) PasteText(text string) error { return f.record("paste:" + text) }
func (f *fakeActuator) PressKey(name string) error  { return f.record("key:" + name) }
func (f *fakeActuator) PressCombination(keys ...string) error {
	return f.record("combo:" + strings.Join(keys, "+"))
}
func (f *fakeActuator) Scroll(amount int) error { return f.record(fmt.Sprintf("scroll:%d", amount)) }
func (f *fakeActuator) Sleep(seconds int) error { return f.record(fmt.Sprintf("sleep:%d", seconds)) }

type fakeRecorder struct {
	started   bool
	active    bool
	stopped   bool
	startName string
	path      string
}

func (f *fakeRecorder) Start(name string) (string, error) {
	f.started = true
	f.active = true
	f.startName = name
	return f.path, nil
}

func (f *fakeRecorder) Stop() (string, error) {
	f.active = false
	f.stopped = true
	return f.path, nil
}

func (f *fakeRecorder) IsActive() bool { return f.active }

func newTestRunner(s *store.Store, locator Locator, actuator Actuator, recorder Recorder) *Runner {
	r := NewRunner(s, locator, actuator, recorder, nil)
	r.settleRecording = 0
	r.settleExecution = 0
	r.sleep = func(time.Duration) {}
	return r
}

func intp(n int) *int { return &n }

func notepadPlan() plan.RawPlan {
	return plan.RawPlan{
		Goal: "write hi in notepad",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "open_application", Target: "Notepad"},
			{ID: intp(2), Action: "wait", Value: "1"},
			{ID: intp(3), Action: "type_text", Target: "editor", Value: "hi"},
		},
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	recorder := &fakeRecorder{path: "/videos/run.mp4"}
	r := newTestRunner(s, &fakeLocator{}, actuator, recorder)

	result := r.Execute(notepadPlan(), "")

	assert.Equal(t, 3, result.TotalSteps)
	assert.Equal(t, 3, result.SuccessfulSteps+result.FailedSteps)
	assert.Equal(t, result.FailedSteps == 0, result.Success)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"minimize", "launch:Notepad", "sleep:1", "paste:hi"}, actuator.calls)

	assert.True(t, recorder.started)
	assert.True(t, recorder.stopped)
	assert.Equal(t, "/videos/run.mp4", result.VideoPath)
	assert.True(t, strings.HasPrefix(recorder.startName, "tutorial_"), "derived name, got %q", recorder.startName)

	// Every step state persisted.
	ids := s.TaskIDs()
	require.Len(t, ids, 1)
	steps, err := s.Steps(ids[0])
	require.NoError(t, err)
	for _, step := range steps {
		assert.Equal(t, store.StateCompleted, step.State)
	}
}

func TestExecuteInvalidPlanFailsEarly(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	recorder := &fakeRecorder{}
	r := newTestRunner(s, &fakeLocator{}, actuator, recorder)

	raw := plan.RawPlan{Steps: []plan.RawStep{{Action: "click", Target: "x"}}}
	result := r.Execute(raw, "")

	assert.False(t, result.Success)
	assert.False(t, result.Validation.IsValid)
	assert.Zero(t, result.TotalSteps)
	assert.Empty(t, result.Steps)
	assert.Empty(t, actuator.calls, "nothing may be dispatched")
	assert.False(t, recorder.started, "recording must not start")
	assert.Empty(t, s.TaskIDs(), "no task may be created")
}

func TestStepFailureDoesNotAbortRun(t *testing.T) {
	s := store.New()
	locator := &fakeLocator{found: map[string]Location{}} // nothing is found
	actuator := &fakeActuator{}
	r := newTestRunner(s, locator, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "click", Target: "Missing Button"},
			{ID: intp(2), Action: "key_press", Value: "enter"},
		},
	}
	result := r.Execute(raw, "")

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.FailedSteps)
	assert.Equal(t, 1, result.SuccessfulSteps)
	require.Len(t, result.Steps, 2)
	assert.Contains(t, result.Steps[0].Error, "element 'Missing Button' not found")
	assert.True(t, result.Steps[1].Success)
	assert.Equal(t, []string{"key:enter"}, actuator.calls)

	steps, _ := s.Steps(s.TaskIDs()[0])
	assert.Equal(t, store.StateFailed, steps[0].State)
	assert.Equal(t, store.StateCompleted, steps[1].State)
}

func TestActuatorErrorBecomesStepError(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{failOn: "launch"}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal:  "g",
		Steps: []plan.RawStep{{ID: intp(1), Action: "open_application", Target: "Notepad"}},
	}
	result := r.Execute(raw, "")

	require.Len(t, result.Steps, 1)
	assert.False(t, result.Steps[0].Success)
	assert.Equal(t, "actuator refused", result.Steps[0].Error)
}

func TestDispatchPanicIsIsolatedToStep(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{panicOn: "paste"}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "type_text", Target: "editor", Value: "boom"},
			{ID: intp(2), Action: "wait", Value: "1"},
		},
	}
	result := r.Execute(raw, "")

	require.Len(t, result.Steps, 2)
	assert.False(t, result.Steps[0].Success)
	assert.Contains(t, result.Steps[0].Error, "unexpected fault")
	assert.True(t, result.Steps[1].Success, "run continues past a panicking step")
}

func TestRunAbortStillStopsRecording(t *testing.T) {
	s := store.New()
	recorder := &fakeRecorder{path: "/videos/partial.mp4"}
	r := newTestRunner(s, &fakeLocator{}, &fakeActuator{}, recorder)
	r.OnStep = func(StepResult) { panic("observer crashed") }

	result := r.Execute(notepadPlan(), "demo")

	require.Len(t, result.Steps, 1, "loop aborted after the first step")
	assert.True(t, recorder.stopped, "cleanup must stop the recording")
	assert.Equal(t, "/videos/partial.mp4", result.VideoPath)
	assert.Equal(t, "demo", recorder.startName)

	// Unreached steps stay pending in the store.
	steps, _ := s.Steps(s.TaskIDs()[0])
	assert.Equal(t, store.StateCompleted, steps[0].State)
	assert.Equal(t, store.StatePending, steps[1].State)
	assert.Equal(t, store.StatePending, steps[2].State)
}

func TestVocabularyMemberWithoutDispatchFails(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal:  "g",
		Steps: []plan.RawStep{{ID: intp(1), Action: "close_application", Target: "Notepad"}},
	}
	result := r.Execute(raw, "")

	require.Len(t, result.Steps, 1)
	assert.False(t, result.Steps[0].Success)
	assert.Equal(t, "unknown action: close_application", result.Steps[0].Error)
	assert.Empty(t, actuator.calls, "no actuator call for an undispatchable action")
}

func TestDispatchDefaults(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "wait"},   // absent value: 3 seconds
			{ID: intp(2), Action: "scroll"}, // absent value: -3, scroll down
		},
	}
	result := r.Execute(raw, "")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"sleep:3", "scroll:-3"}, actuator.calls)
}

func TestPointerActionsUseLocatedCoordinates(t *testing.T) {
	s := store.New()
	locator := &fakeLocator{found: map[string]Location{
		"File": {Found: true, X: 40, Y: 12},
		"Icon": {Found: true, X: 200, Y: 300},
	}}
	actuator := &fakeActuator{}
	r := newTestRunner(s, locator, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "click", Target: "File"},
			{ID: intp(2), Action: "double_click", Target: "Icon"},
			{ID: intp(3), Action: "right_click", Target: "Icon"},
		},
	}
	result := r.Execute(raw, "")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"click:40,12", "double:200,300", "right:200,300"}, actuator.calls)
	assert.Equal(t, "Look for 'File' in the TOP MENU BAR.", locator.hints["File"])
}

func TestTypeTextLocatesNamedFieldFirst(t *testing.T) {
	s := store.New()
	locator := &fakeLocator{found: map[string]Location{
		"Project name": {Found: true, X: 500, Y: 400},
	}}
	actuator := &fakeActuator{}
	r := newTestRunner(s, locator, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "type_text", Target: "Project name", Value: "demo"},
			{ID: intp(2), Action: "type_text", Target: "editor", Value: "code"},
		},
	}
	result := r.Execute(raw, "")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"click:500,400", "paste:demo", "paste:code"}, actuator.calls)
	_, locatedEditor := locator.hints["editor"]
	assert.False(t, locatedEditor, "reserved targets are never located")
}

func TestKeyCombinationParsing(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal:  "g",
		Steps: []plan.RawStep{{ID: intp(1), Action: "key_combination", Value: "Ctrl + Shift+P"}},
	}
	result := r.Execute(raw, "")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"combo:ctrl+shift+p"}, actuator.calls)
}

func TestKeyPressPrefersValueOverTarget(t *testing.T) {
	s := store.New()
	actuator := &fakeActuator{}
	r := newTestRunner(s, &fakeLocator{}, actuator, nil)

	raw := plan.RawPlan{
		Goal: "g",
		Steps: []plan.RawStep{
			{ID: intp(1), Action: "key_press", Target: "tab", Value: "Enter"},
			{ID: intp(2), Action: "key_press", Target: "Tab"},
		},
	}
	result := r.Execute(raw, "")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"key:enter", "key:tab"}, actuator.calls)
}

func TestRecordingDisabledWithoutRecorder(t *testing.T) {
	s := store.New()
	r := newTestRunner(s, &fakeLocator{}, &fakeActuator{}, nil)

	result := r.Execute(notepadPlan(), "")

	assert.True(t, result.Success)
	assert.Empty(t, result.VideoPath)
}
