// Package plan defines the raw task plan shape produced upstream, the mapper
// that normalizes raw plans into store records, and the validator that checks
// plans before execution.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
)

// RawPlan is a task plan as generated upstream, before any normalization.
type RawPlan struct {
	OriginalInstruction string    `json:"original_instruction"`
	Goal                string    `json:"goal"`
	Prerequisites       []string  `json:"prerequisites"`
	SuccessCriteria     string    `json:"success_criteria"`
	Steps               []RawStep `json:"steps"`
}

// RawStep is one unnormalized step. Value can be any JSON scalar because
// upstream generators emit numbers and strings interchangeably; it is
// stringified during normalization.
type RawStep struct {
	ID             *int   `json:"id"`
	Action         string `json:"action"`
	Target         string `json:"target"`
	Value          any    `json:"value"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result"`
}

// StructureError reports a structural plan defect found before any store
// mutation.
type StructureError struct {
	Field  string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("invalid plan structure: %s: %s", e.Field, e.Reason)
}

// Decode parses raw plan JSON. A "steps" field that is not a list surfaces as
// a StructureError rather than a bare decoding error.
func Decode(data []byte) (RawPlan, error) {
	var raw RawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return RawPlan{}, &StructureError{Field: typeErr.Field, Reason: "wrong type"}
		}
		return RawPlan{}, fmt.Errorf("parse plan: %w", err)
	}
	return raw, nil
}

// Encode renders a raw plan back to indented JSON, as shown in the editor.
func Encode(raw RawPlan) (string, error) {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return string(data), nil
}

// stringifyValue renders a step value the way it will be typed or parsed.
// A missing value stays empty.
func stringifyValue(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
