package plan

import (
	"fmt"
	"strings"

	"deskpilot/internal/store"
)

// Validator checks raw plans against the store's action vocabulary. It is
// pure: validating never touches the store's mutable state.
type Validator struct {
	actions []store.Action
}

// NewValidator returns a Validator using s's vocabulary.
func NewValidator(s *store.Store) *Validator {
	return &Validator{actions: s.ValidActions()}
}

// Report is the validation outcome in the shape exposed to callers.
type Report struct {
	IsValid      bool     `json:"is_valid"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	ErrorCount   int      `json:"error_count"`
	WarningCount int      `json:"warning_count"`
	StepsCount   int      `json:"steps_count"`
	Summary      string   `json:"summary"`
}

// Validate checks the plan's structure, each step, and the step sequence.
// Structural defects are fatal and short-circuit the per-step checks.
// Warnings never affect validity.
func (v *Validator) Validate(raw RawPlan) (bool, []string, []string) {
	var errs, warnings []string

	errs = append(errs, validateStructure(raw)...)
	if len(errs) > 0 {
		return false, errs, warnings
	}

	for i, step := range raw.Steps {
		stepErrs, stepWarnings := v.validateStep(step, i)
		errs = append(errs, stepErrs...)
		warnings = append(warnings, stepWarnings...)
	}

	warnings = append(warnings, validateSequence(raw.Steps)...)

	return len(errs) == 0, errs, warnings
}

// Report wraps Validate with counts and a one-line summary.
func (v *Validator) Report(raw RawPlan) Report {
	isValid, errs, warnings := v.Validate(raw)

	summary := "Plan is valid"
	if !isValid {
		summary = fmt.Sprintf("Plan has %d errors", len(errs))
	}

	return Report{
		IsValid:      isValid,
		Errors:       errs,
		Warnings:     warnings,
		ErrorCount:   len(errs),
		WarningCount: len(warnings),
		StepsCount:   len(raw.Steps),
		Summary:      summary,
	}
}

func validateStructure(raw RawPlan) []string {
	var errs []string
	if raw.Goal == "" {
		errs = append(errs, "Plan must have 'goal'")
	}
	if raw.Steps == nil {
		errs = append(errs, "Plan must have 'steps'")
	} else if len(raw.Steps) == 0 {
		errs = append(errs, "Plan must have at least one step")
	}
	return errs
}

// targetRequired lists the actions whose targets should name a concrete
// on-screen element.
var targetRequired = map[string]bool{
	string(store.ActionClick):       true,
	string(store.ActionDoubleClick): true,
	string(store.ActionRightClick):  true,
	string(store.ActionTypeText):    true,
}

func (v *Validator) validateStep(step RawStep, index int) ([]string, []string) {
	var errs, warnings []string
	stepNum := index + 1

	action := step.Action
	if action == "" {
		errs = append(errs, fmt.Sprintf("Step %d: Missing 'action'", stepNum))
	} else if !store.IsValidAction(action) {
		names := make([]string, len(v.actions))
		for i, a := range v.actions {
			names[i] = string(a)
		}
		errs = append(errs, fmt.Sprintf("Step %d: Unknown action '%s'. Valid actions: %s",
			stepNum, action, strings.Join(names, ", ")))
	}

	if targetRequired[action] {
		if step.Target == "" || step.Target == "screen" {
			warnings = append(warnings, fmt.Sprintf("Step %d: '%s' missing specific target", stepNum, action))
		}
	}

	if action == string(store.ActionTypeText) && stringifyValue(step.Value) == "" {
		errs = append(errs, fmt.Sprintf("Step %d: 'type_text' requires 'value'", stepNum))
	}

	if action == string(store.ActionKeyPress) && stringifyValue(step.Value) == "" && step.Target == "" {
		errs = append(errs, fmt.Sprintf("Step %d: 'key_press' requires key name", stepNum))
	}

	if action == string(store.ActionWait) {
		if value := stringifyValue(step.Value); value != "" && digitRun.FindString(value) == "" {
			errs = append(errs, fmt.Sprintf("Step %d: 'wait' value must be a number", stepNum))
		}
	}

	return errs, warnings
}

// validateSequence applies ordering heuristics. These are always warnings:
// the plan may still work, it is just likelier to race the UI.
func validateSequence(steps []RawStep) []string {
	var warnings []string

	for i, step := range steps {
		if step.Action != string(store.ActionOpenApplication) {
			continue
		}
		if i+1 < len(steps) && steps[i+1].Action != string(store.ActionWait) {
			warnings = append(warnings, fmt.Sprintf(
				"Step %d: It is recommended to add 'wait' after 'open_application'", i+1))
		}
	}

	searchSeen := false
	for i, step := range steps {
		if step.Action == string(store.ActionTypeText) &&
			strings.Contains(strings.ToLower(step.Target), "search") {
			searchSeen = true
		}
		if searchSeen && step.Action == string(store.ActionClick) && step.Target == "" {
			warnings = append(warnings, fmt.Sprintf(
				"Step %d: Click after search should have a specific target", i+1))
		}
	}

	return warnings
}
