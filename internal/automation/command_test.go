package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/store"
)

func TestLocatorHint(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"File", "Look for 'File' in the TOP MENU BAR."},
		{"edit", "Look for 'edit' in the TOP MENU BAR."},
		{"Search bar", "Look for a SEARCH BOX or SEARCH INPUT FIELD."},
		{"address bar", "Look for the BROWSER ADDRESS BAR at the top."},
		{"URL field", "Look for the BROWSER ADDRESS BAR at the top."},
		{"Next", "Look for a BUTTON labeled 'Next'."},
		{"Cancel button", "Look for a BUTTON labeled 'Cancel button'."},
		{"first video", "Look for a clickable element labeled 'first video'."},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, locatorHint(tt.target))
		})
	}
}

func TestCompileWaitParsesLeadingInteger(t *testing.T) {
	cmd, err := compileStep(store.Step{Action: store.ActionWait, Value: "7"})
	require.NoError(t, err)
	assert.Equal(t, waitFor{Seconds: 7}, cmd)

	// Unparseable values fall back to the dispatch default.
	cmd, err = compileStep(store.Step{Action: store.ActionWait, Value: "soon"})
	require.NoError(t, err)
	assert.Equal(t, waitFor{Seconds: 3}, cmd)
}

func TestCompileScroll(t *testing.T) {
	cmd, err := compileStep(store.Step{Action: store.ActionScroll, Value: "5"})
	require.NoError(t, err)
	assert.Equal(t, scrollBy{Amount: 5}, cmd)

	cmd, err = compileStep(store.Step{Action: store.ActionScroll, Value: "-10"})
	require.NoError(t, err)
	assert.Equal(t, scrollBy{Amount: -10}, cmd)
}

func TestCompileChordFromTarget(t *testing.T) {
	cmd, err := compileStep(store.Step{Action: store.ActionKeyCombination, Target: "ctrl+s"})
	require.NoError(t, err)
	assert.Equal(t, pressChord{Keys: []string{"ctrl", "s"}}, cmd)
}

func TestCompileUndispatchableActions(t *testing.T) {
	for _, action := range []store.Action{store.ActionCloseApplication, store.ActionMoveMouse} {
		_, err := compileStep(store.Step{Action: action})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown action")
	}
}
