package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/store"
)

func intp(n int) *int { return &n }

func validRaw() RawPlan {
	return RawPlan{
		Goal: "write hello in notepad",
		Steps: []RawStep{
			{ID: intp(1), Action: "open_application", Target: "Notepad"},
			{ID: intp(2), Action: "wait", Value: "2"},
			{ID: intp(3), Action: "type_text", Target: "editor", Value: "hello"},
		},
	}
}

func TestMapRegistersTask(t *testing.T) {
	s := store.New()
	m := NewMapper(s, nil)

	id, err := m.Map(validRaw())
	require.NoError(t, err)

	steps, err := m.Steps(id)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, store.ActionOpenApplication, steps[0].Action)
	assert.Equal(t, "hello", steps[2].Value)
}

func TestMapStructureErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawPlan
		field string
	}{
		{"missing goal", RawPlan{Steps: []RawStep{{Action: "click"}}}, "goal"},
		{"missing steps", RawPlan{Goal: "g"}, "steps"},
		{"empty steps", RawPlan{Goal: "g", Steps: []RawStep{}}, "steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New()
			m := NewMapper(s, nil)

			_, err := m.Map(tt.raw)
			require.Error(t, err)

			structErr, ok := err.(*StructureError)
			require.True(t, ok, "want StructureError, got %T", err)
			assert.Equal(t, tt.field, structErr.Field)

			// No partial task may exist after a structural failure.
			_, err = s.Steps("task_anything")
			assert.Error(t, err)
		})
	}
}

func TestNormalizeCoercesUnknownAction(t *testing.T) {
	s := store.New()
	m := NewMapper(s, nil)

	raw := RawPlan{
		Goal:  "g",
		Steps: []RawStep{{Action: "doubleclick", Target: "icon"}},
	}
	id, err := m.Map(raw)
	require.NoError(t, err)

	steps, _ := m.Steps(id)
	assert.Equal(t, store.ActionClick, steps[0].Action)
}

func TestNormalizeLowercasesAction(t *testing.T) {
	s := store.New()
	m := NewMapper(s, nil)

	raw := RawPlan{
		Goal:  "g",
		Steps: []RawStep{{Action: "Double_Click", Target: "icon"}},
	}
	id, err := m.Map(raw)
	require.NoError(t, err)

	steps, _ := m.Steps(id)
	assert.Equal(t, store.ActionDoubleClick, steps[0].Action)
}

func TestNormalizeWaitValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"plain number", "5", "5"},
		{"number with unit", "5 seconds", "5"},
		{"digits inside text", "wait about 10s here", "10"},
		{"no digits", "abc", "4"},
		{"numeric json value", float64(3), "3"},
		{"absent value stays empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New()
			m := NewMapper(s, nil)

			raw := RawPlan{
				Goal:  "g",
				Steps: []RawStep{{Action: "wait", Value: tt.value}},
			}
			id, err := m.Map(raw)
			require.NoError(t, err)

			steps, _ := m.Steps(id)
			assert.Equal(t, tt.want, steps[0].Value)
		})
	}
}

func TestNormalizeStepIDs(t *testing.T) {
	s := store.New()
	m := NewMapper(s, nil)

	raw := RawPlan{
		Goal: "g",
		Steps: []RawStep{
			{ID: intp(7), Action: "click", Target: "a"},
			{Action: "click", Target: "b"}, // no id: positional
		},
	}
	id, err := m.Map(raw)
	require.NoError(t, err)

	steps, _ := m.Steps(id)
	assert.Equal(t, 7, steps[0].Num)
	assert.Equal(t, 2, steps[1].Num)
}

func TestDecode(t *testing.T) {
	raw, err := Decode([]byte(`{"goal":"g","steps":[{"action":"click","value":12}]}`))
	require.NoError(t, err)
	assert.Equal(t, "g", raw.Goal)
	assert.Equal(t, float64(12), raw.Steps[0].Value)

	_, err = Decode([]byte(`{"goal":"g","steps":"not a list"}`))
	require.Error(t, err)
	structErr, ok := err.(*StructureError)
	require.True(t, ok)
	assert.Equal(t, "steps", structErr.Field)
}
