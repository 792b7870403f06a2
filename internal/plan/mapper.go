package plan

import (
	"log/slog"
	"regexp"
	"strings"

	"deskpilot/internal/store"
)

var digitRun = regexp.MustCompile(`\d+`)

// Mapper normalizes raw plans into canonical store records. Every downstream
// consumer operates on the normalized shape, so drift in upstream generators
// (actions in mixed case, wait values like "5 seconds") is absorbed here.
type Mapper struct {
	store *store.Store
	log   *slog.Logger
}

// NewMapper returns a Mapper writing to s.
func NewMapper(s *store.Store, log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{store: s, log: log}
}

// Map validates the raw plan's structure, normalizes it and registers it in
// the store. On a structural defect it fails with a StructureError and no
// partial task is created.
func (m *Mapper) Map(raw RawPlan) (store.TaskID, error) {
	if err := checkStructure(raw); err != nil {
		return "", err
	}

	spec := store.TaskSpec{
		OriginalInstruction: raw.OriginalInstruction,
		Goal:                raw.Goal,
		Prerequisites:       raw.Prerequisites,
		SuccessCriteria:     raw.SuccessCriteria,
	}
	for i, rawStep := range raw.Steps {
		spec.Steps = append(spec.Steps, m.normalizeStep(rawStep, i+1))
	}

	taskID, err := m.store.CreateTask(spec)
	if err != nil {
		return "", err
	}

	m.log.Info("mapped plan", "task", taskID, "steps", len(spec.Steps))
	return taskID, nil
}

// Steps is a passthrough to the store.
func (m *Mapper) Steps(id store.TaskID) ([]store.Step, error) {
	return m.store.Steps(id)
}

// SetStepState is a passthrough to the store.
func (m *Mapper) SetStepState(id store.StepID, state store.State) error {
	return m.store.SetStepState(id, state)
}

func checkStructure(raw RawPlan) error {
	if raw.Goal == "" {
		return &StructureError{Field: "goal", Reason: "missing"}
	}
	if raw.Steps == nil {
		return &StructureError{Field: "steps", Reason: "missing"}
	}
	if len(raw.Steps) == 0 {
		return &StructureError{Field: "steps", Reason: "must have at least one step"}
	}
	return nil
}

// normalizeStep produces a canonical step record. Unknown actions are coerced
// to click rather than rejected; mapping never fails on a single step.
func (m *Mapper) normalizeStep(raw RawStep, position int) store.StepSpec {
	action := strings.ToLower(raw.Action)
	if !store.IsValidAction(action) {
		m.log.Warn("unknown action, using click", "action", action, "step", position)
		action = string(store.ActionClick)
	}

	value := stringifyValue(raw.Value)
	if action == string(store.ActionWait) && raw.Value != nil {
		// Upstream emits values like "5 seconds"; keep only the digits.
		if digits := digitRun.FindString(value); digits != "" {
			value = digits
		} else {
			value = "4"
		}
	}

	num := position
	if raw.ID != nil {
		num = *raw.ID
	}

	return store.StepSpec{
		Num:            num,
		Action:         store.Action(action),
		Target:         raw.Target,
		Value:          value,
		Description:    raw.Description,
		ExpectedResult: raw.ExpectedResult,
	}
}
