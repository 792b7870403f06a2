package ai

import (
	"fmt"
	"strings"

	"deskpilot/internal/store"
	"deskpilot/pkg/utils"
)

// PlanSystemPrompt builds the plan-generation system prompt. The available
// actions come from the store so the prompt can never drift from the
// vocabulary the validator and executor enforce.
func PlanSystemPrompt(actions []store.Action) string {
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}

	return fmt.Sprintf(`You are an expert in desktop application automation. You create DETAILED
plans for a Computer Use agent running on %s.

AVAILABLE ACTIONS:
%s

RULES FOR CREATING STEPS:

1. target MUST be the EXACT text visible on screen:
   GOOD: "File", "New", "Project...", "Console App", "Next", "Create"
   BAD:  "File menu", "New project button", "click on File"

2. For MENUS, every level is a SEPARATE step:
   step 1: click "File", step 2: click "New", step 3: click "Project..."

3. For wait, value is a NUMBER as a string:
   GOOD: "value": "3"
   BAD:  "value": "3 seconds"

4. For type_text:
   - target = the field name (e.g. "Project name"), or "editor" for code
   - value = the text to type

5. MANDATORY wait steps:
   - after open_application: wait 4 seconds
   - after creating a project: wait 5 seconds
   - after clicking a menu: wait 1 second
   - after ANY action that triggers loading

6. For browsers: open_application, wait 4, type_text into "Address bar",
   key_press "enter", wait for the page. For YouTube: type_text into the
   "Search" field, key_press "enter", click a specific result.

Respond with ONLY a JSON object of this shape:

{
  "goal": "...",
  "prerequisites": ["..."],
  "steps": [
    {"id": 1, "action": "open_application", "target": "Notepad", "value": null,
     "description": "Launch Notepad", "expected_result": "Notepad is open"},
    {"id": 2, "action": "wait", "target": "screen", "value": "4",
     "description": "Wait for startup", "expected_result": "Window is visible"}
  ],
  "success_criteria": "..."
}

IMPORTANT: go step by step in detail, NEVER skip steps.
IMPORTANT: double-check every target is the exact on-screen text.`,
		utils.CurrentOS(), strings.Join(names, ", "))
}

// LocatePrompt builds the vision query asking for an element's coordinates in
// the attached screenshot.
func LocatePrompt(target, hint string, width, height int) string {
	return fmt.Sprintf(`You see a %dx%d screenshot of a desktop.
Find this UI element: "%s"
%s
Respond with ONLY a JSON object: {"found": true, "x": <int>, "y": <int>}
with x and y at the CENTER of the element, or {"found": false} if it is not
visible.`, width, height, target, hint)
}
