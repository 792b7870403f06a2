package automation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"deskpilot/internal/plan"
	"deskpilot/internal/store"
)

// StepResult is the outcome of dispatching one step.
type StepResult struct {
	StepID  int    `json:"step_id"`
	Action  string `json:"action"`
	Target  string `json:"target"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Result is the aggregate outcome of one run.
type Result struct {
	Success         bool         `json:"success"`
	TotalSteps      int          `json:"total_steps"`
	SuccessfulSteps int          `json:"successful_steps"`
	FailedSteps     int          `json:"failed_steps"`
	Steps           []StepResult `json:"steps"`
	VideoPath       string       `json:"video_path,omitempty"`
	Validation      plan.Report  `json:"validation"`
}

// Runner executes one raw plan as a strictly sequential run: validate, map,
// record, dispatch each step, report. A nil Recorder disables recording.
type Runner struct {
	mapper    *plan.Mapper
	validator *plan.Validator
	locator   Locator
	actuator  Actuator
	recorder  Recorder
	log       *slog.Logger

	// OnStep, when set, observes each step outcome as it happens. Used by
	// the GUI to stream progress.
	OnStep func(StepResult)

	// settle pauses bracket recording start/stop and the loop start; the
	// pause lets the recording and the UI stabilize before input lands.
	settleRecording time.Duration
	settleExecution time.Duration

	sleep func(time.Duration)
}

// NewRunner wires a Runner over the store and its collaborators.
func NewRunner(s *store.Store, locator Locator, actuator Actuator, recorder Recorder, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		mapper:          plan.NewMapper(s, log),
		validator:       plan.NewValidator(s),
		locator:         locator,
		actuator:        actuator,
		recorder:        recorder,
		log:             log,
		settleRecording: 2 * time.Second,
		settleExecution: 3 * time.Second,
		sleep:           time.Sleep,
	}
}

// Execute runs the plan to completion and returns the aggregated result.
// Validation failure returns immediately: no task is created, no recording
// starts, zero steps execute. Once the step loop starts, a single step's
// failure never aborts it, and a started recording is always stopped.
func (r *Runner) Execute(raw plan.RawPlan, recordingName string) (result Result) {
	result.Validation = r.validator.Report(raw)
	if !result.Validation.IsValid {
		r.log.Error("plan is not valid", "errors", result.Validation.Errors)
		return result
	}
	for _, warning := range result.Validation.Warnings {
		r.log.Warn("plan warning", "warning", warning)
	}

	taskID, err := r.mapper.Map(raw)
	if err != nil {
		// Unreachable on a validated plan; surface without executing.
		r.log.Error("mapping failed", "error", err)
		return result
	}

	steps, err := r.mapper.Steps(taskID)
	if err != nil {
		r.log.Error("loading steps failed", "error", err)
		return result
	}
	result.TotalSteps = len(steps)

	if r.recorder != nil {
		name := recordingName
		if name == "" {
			name = recordingNameForTask(taskID)
		}
		if _, err := r.recorder.Start(name); err != nil {
			r.log.Warn("recording start failed", "error", err)
		}
		r.sleep(r.settleRecording)
	}

	// Stop a started recording no matter how the step loop ends.
	defer func() {
		if r.recorder == nil || !r.recorder.IsActive() {
			return
		}
		r.sleep(r.settleRecording)
		path, err := r.recorder.Stop()
		if err != nil {
			r.log.Warn("recording stop failed", "error", err)
			return
		}
		if path != "" {
			result.VideoPath = path
		}
	}()

	r.sleep(r.settleExecution)

	func() {
		defer func() {
			if fault := recover(); fault != nil {
				r.log.Error("run aborted", "fault", fault)
			}
		}()

		for _, step := range steps {
			stepResult := r.executeStep(step)
			result.Steps = append(result.Steps, stepResult)

			state := store.StateCompleted
			if !stepResult.Success {
				state = store.StateFailed
			}
			if err := r.mapper.SetStepState(step.ID, state); err != nil {
				r.log.Warn("state update failed", "step", step.ID, "error", err)
			}

			if stepResult.Success {
				result.SuccessfulSteps++
			} else {
				result.FailedSteps++
			}

			if r.OnStep != nil {
				r.OnStep(stepResult)
			}
		}
	}()

	result.Success = result.FailedSteps == 0

	r.log.Info("run finished",
		"successful", result.SuccessfulSteps,
		"total", result.TotalSteps,
		"success", result.Success,
		"video", result.VideoPath)

	return result
}

// executeStep dispatches one step. Every failure mode lands in the step's
// result: a locator miss, an actuator error, or a panic during dispatch.
func (r *Runner) executeStep(step store.Step) (result StepResult) {
	result = StepResult{
		StepID: step.Num,
		Action: string(step.Action),
		Target: step.Target,
	}

	defer func() {
		if fault := recover(); fault != nil {
			result.Success = false
			result.Error = fmt.Sprintf("unexpected fault: %v", fault)
		}
	}()

	r.log.Info("executing step", "step", step.Num, "action", step.Action, "target", step.Target)
	if step.Description != "" {
		r.log.Debug("step description", "step", step.Num, "description", step.Description)
	}

	cmd, err := compileStep(step)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if err := r.dispatch(cmd); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

func (r *Runner) dispatch(cmd command) error {
	switch c := cmd.(type) {
	case openApp:
		if err := r.actuator.MinimizeAll(); err != nil {
			return err
		}
		r.sleep(time.Second)
		return r.actuator.Launch(c.App)

	case waitFor:
		return r.actuator.Sleep(c.Seconds)

	case pointer:
		loc, err := r.locator.Locate(c.Target, locatorHint(c.Target))
		if err != nil {
			return err
		}
		if !loc.Found {
			return fmt.Errorf("element '%s' not found", c.Target)
		}
		switch c.Kind {
		case pointerDoubleClick:
			return r.actuator.DoubleClick(loc.X, loc.Y)
		case pointerRightClick:
			return r.actuator.RightClick(loc.X, loc.Y)
		default:
			return r.actuator.Click(loc.X, loc.Y)
		}

	case typeText:
		if field := strings.ToLower(c.Field); field != "editor" && field != "screen" && field != "" {
			loc, err := r.locator.Locate(c.Field, locatorHint(c.Field))
			if err != nil {
				return err
			}
			if loc.Found {
				if err := r.actuator.Click(loc.X, loc.Y); err != nil {
					return err
				}
				r.sleep(300 * time.Millisecond)
			}
		}
		return r.actuator.PasteText(c.Text)

	case pressKey:
		return r.actuator.PressKey(c.Key)

	case pressChord:
		return r.actuator.PressCombination(c.Keys...)

	case scrollBy:
		return r.actuator.Scroll(c.Amount)

	default:
		return fmt.Errorf("unhandled command %T", cmd)
	}
}

// recordingNameForTask derives a session name from the task identifier.
func recordingNameForTask(id store.TaskID) string {
	parts := strings.Split(string(id), "_")
	return "tutorial_" + parts[len(parts)-1]
}
