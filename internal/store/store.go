// Package store holds the Task/Step records produced by mapping a plan and
// defines the canonical action vocabulary shared by the mapper, the validator
// and the executor.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Action is one automation primitive from the closed vocabulary.
type Action string

const (
	ActionClick            Action = "click"
	ActionDoubleClick      Action = "double_click"
	ActionRightClick       Action = "right_click"
	ActionTypeText         Action = "type_text"
	ActionKeyPress         Action = "key_press"
	ActionKeyCombination   Action = "key_combination"
	ActionWait             Action = "wait"
	ActionOpenApplication  Action = "open_application"
	ActionCloseApplication Action = "close_application"
	ActionScroll           Action = "scroll"
	ActionMoveMouse        Action = "move_mouse"
)

// validActions is the single definition of the vocabulary. Order is stable so
// error messages and prompts list actions deterministically.
var validActions = []Action{
	ActionClick, ActionDoubleClick, ActionRightClick, ActionTypeText,
	ActionKeyPress, ActionKeyCombination, ActionWait, ActionOpenApplication,
	ActionCloseApplication, ActionScroll, ActionMoveMouse,
}

// State is the execution state of a stored step.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// TaskID identifies a stored task. Stable for the process lifetime.
type TaskID string

// StepID identifies a stored step across all tasks.
type StepID string

// Task is one end-to-end automation goal with its ordered plan of steps.
type Task struct {
	ID                  TaskID
	OriginalInstruction string
	Goal                string
	Prerequisites       []string
	SuccessCriteria     string
	StepIDs             []StepID
}

// Step is one atomic UI action. State is the only field mutated after
// creation.
type Step struct {
	ID             StepID
	Num            int // plan-supplied step id; not a sort key
	Action         Action
	Target         string
	Value          string
	Description    string
	ExpectedResult string
	State          State
}

// TaskSpec is a normalized plan handed to CreateTask. The mapper guarantees
// every action is a vocabulary member before building one.
type TaskSpec struct {
	OriginalInstruction string
	Goal                string
	Prerequisites       []string
	SuccessCriteria     string
	Steps               []StepSpec
}

// StepSpec is one normalized step of a TaskSpec.
type StepSpec struct {
	Num            int
	Action         Action
	Target         string
	Value          string
	Description    string
	ExpectedResult string
}

// Store is an identifier-addressed repository of tasks and steps. It is
// append-only: tasks accumulate across runs for the process lifetime. Safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	order []TaskID
	tasks map[TaskID]*Task
	steps map[StepID]*Step
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		tasks: make(map[TaskID]*Task),
		steps: make(map[StepID]*Step),
	}
}

// TaskIDs returns every stored task identifier in creation order. The store
// never forgets a task, so this doubles as the run history.
func (s *Store) TaskIDs() []TaskID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TaskID(nil), s.order...)
}

// ValidActions returns the authoritative action vocabulary.
func (s *Store) ValidActions() []Action {
	out := make([]Action, len(validActions))
	copy(out, validActions)
	return out
}

// IsValidAction reports whether name is a member of the vocabulary.
func IsValidAction(name string) bool {
	for _, a := range validActions {
		if string(a) == name {
			return true
		}
	}
	return false
}

// CreateTask registers a new task and its steps, returning a fresh unique
// identifier. Steps are stored in exactly the order given; their Num values
// must be unique within the task but need not be sorted.
func (s *Store) CreateTask(spec TaskSpec) (TaskID, error) {
	if len(spec.Steps) == 0 {
		return "", fmt.Errorf("task must have at least one step")
	}
	seen := make(map[int]bool, len(spec.Steps))
	for _, st := range spec.Steps {
		if !IsValidAction(string(st.Action)) {
			return "", fmt.Errorf("step %d: action %q is not a valid action", st.Num, st.Action)
		}
		if seen[st.Num] {
			return "", fmt.Errorf("duplicate step id %d", st.Num)
		}
		seen[st.Num] = true
	}

	taskID := TaskID("task_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	s.mu.Lock()
	defer s.mu.Unlock()

	task := &Task{
		ID:                  taskID,
		OriginalInstruction: spec.OriginalInstruction,
		Goal:                spec.Goal,
		Prerequisites:       append([]string(nil), spec.Prerequisites...),
		SuccessCriteria:     spec.SuccessCriteria,
	}
	for i, st := range spec.Steps {
		stepID := StepID(fmt.Sprintf("%s_step_%d", taskID, i+1))
		s.steps[stepID] = &Step{
			ID:             stepID,
			Num:            st.Num,
			Action:         st.Action,
			Target:         st.Target,
			Value:          st.Value,
			Description:    st.Description,
			ExpectedResult: st.ExpectedResult,
			State:          StatePending,
		}
		task.StepIDs = append(task.StepIDs, stepID)
	}
	s.tasks[taskID] = task
	s.order = append(s.order, taskID)

	return taskID, nil
}

// Task returns a copy of the stored task.
func (s *Store) Task(id TaskID) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("unknown task %q", id)
	}
	out := *task
	out.Prerequisites = append([]string(nil), task.Prerequisites...)
	out.StepIDs = append([]StepID(nil), task.StepIDs...)
	return out, nil
}

// Steps returns copies of the task's steps in insertion order. That order is
// the execution order.
func (s *Store) Steps(id TaskID) ([]Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("unknown task %q", id)
	}
	out := make([]Step, 0, len(task.StepIDs))
	for _, stepID := range task.StepIDs {
		out = append(out, *s.steps[stepID])
	}
	return out, nil
}

// SetStepState updates a step's execution state. Idempotent: setting the same
// state again is a no-op.
func (s *Store) SetStepState(id StepID, state State) error {
	switch state {
	case StatePending, StateCompleted, StateFailed:
	default:
		return fmt.Errorf("invalid step state %q", state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	step, ok := s.steps[id]
	if !ok {
		return fmt.Errorf("unknown step %q", id)
	}
	step.State = state
	return nil
}
