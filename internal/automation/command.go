package automation

import (
	"fmt"
	"strconv"
	"strings"

	"deskpilot/internal/store"
)

// command is a dispatchable step compiled from its stored record. Each
// variant carries only the fields its action uses, so the target-or-value
// ambiguity of the raw shape is resolved before dispatch.
type command interface {
	isCommand()
}

type openApp struct {
	App string
}

type waitFor struct {
	Seconds int
}

// pointerKind selects which pointer action a pointer command performs.
type pointerKind int

const (
	pointerClick pointerKind = iota
	pointerDoubleClick
	pointerRightClick
)

type pointer struct {
	Kind   pointerKind
	Target string
}

type typeText struct {
	Field string
	Text  string
}

type pressKey struct {
	Key string
}

type pressChord struct {
	Keys []string
}

type scrollBy struct {
	Amount int
}

func (openApp) isCommand()    {}
func (waitFor) isCommand()    {}
func (pointer) isCommand()    {}
func (typeText) isCommand()   {}
func (pressKey) isCommand()   {}
func (pressChord) isCommand() {}
func (scrollBy) isCommand()   {}

// compileStep turns a stored step into its command. Vocabulary members with
// no dispatch behavior (close_application, move_mouse) fail here, before any
// actuator call.
func compileStep(step store.Step) (command, error) {
	switch step.Action {
	case store.ActionOpenApplication:
		return openApp{App: step.Target}, nil

	case store.ActionWait:
		seconds := 3
		if n, err := strconv.Atoi(step.Value); err == nil {
			seconds = n
		}
		return waitFor{Seconds: seconds}, nil

	case store.ActionClick:
		return pointer{Kind: pointerClick, Target: step.Target}, nil

	case store.ActionDoubleClick:
		return pointer{Kind: pointerDoubleClick, Target: step.Target}, nil

	case store.ActionRightClick:
		return pointer{Kind: pointerRightClick, Target: step.Target}, nil

	case store.ActionTypeText:
		return typeText{Field: step.Target, Text: step.Value}, nil

	case store.ActionKeyPress:
		key := step.Value
		if key == "" {
			key = step.Target
		}
		return pressKey{Key: strings.ToLower(key)}, nil

	case store.ActionKeyCombination:
		combo := step.Value
		if combo == "" {
			combo = step.Target
		}
		combo = strings.ReplaceAll(strings.ToLower(combo), " ", "")
		return pressChord{Keys: strings.Split(combo, "+")}, nil

	case store.ActionScroll:
		amount := -3 // scroll down
		if n, err := strconv.Atoi(step.Value); err == nil {
			amount = n
		}
		return scrollBy{Amount: amount}, nil

	default:
		return nil, fmt.Errorf("unknown action: %s", step.Action)
	}
}

// menuBarItems are targets searched in the application menu bar.
var menuBarItems = map[string]bool{
	"file": true, "edit": true, "view": true, "tools": true, "help": true,
}

var buttonWords = []string{"button", "next", "ok", "cancel", "create"}

// locatorHint builds a short natural-language phrase telling the locator
// where an element is likely to be.
func locatorHint(target string) string {
	t := strings.ToLower(target)

	switch {
	case menuBarItems[t]:
		return fmt.Sprintf("Look for '%s' in the TOP MENU BAR.", target)
	case strings.Contains(t, "search"):
		return "Look for a SEARCH BOX or SEARCH INPUT FIELD."
	case strings.Contains(t, "address"), strings.Contains(t, "url"):
		return "Look for the BROWSER ADDRESS BAR at the top."
	}
	for _, word := range buttonWords {
		if strings.Contains(t, word) {
			return fmt.Sprintf("Look for a BUTTON labeled '%s'.", target)
		}
	}
	return fmt.Sprintf("Look for a clickable element labeled '%s'.", target)
}
