package ui

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskpilot/internal/automation"
	"deskpilot/internal/i18n"
	"deskpilot/internal/plan"
	"deskpilot/internal/recorder"
	"deskpilot/internal/vision"
	"deskpilot/pkg/utils"
)

// initPlansDir initializes the saved-plans directory
func (g *GUI) initPlansDir() {
	g.plansDir = utils.GetPlansDir()
	os.MkdirAll(g.plansDir, 0755)
	g.updatePlanFiles()
}

// updatePlanFiles refreshes the plan file dropdown
func (g *GUI) updatePlanFiles() {
	g.planFiles = []string{}
	files, err := os.ReadDir(g.plansDir)
	if err == nil {
		for _, file := range files {
			if !file.IsDir() && strings.HasSuffix(file.Name(), ".json") {
				g.planFiles = append(g.planFiles, file.Name())
			}
		}
	}

	if g.planSelect != nil {
		g.planSelect.Options = g.planFiles
	}
}

// createToolbar creates the toolbar
func (g *GUI) createToolbar() fyne.CanvasObject {
	g.planSelect = widget.NewSelect(g.planFiles, func(selected string) {
		g.loadPlanFile(selected)
	})

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		g.updatePlanFiles()
	})

	planSelectContainer := container.NewBorder(
		nil, nil, nil, refreshButton,
		g.planSelect,
	)

	return container.NewHBox(
		widget.NewLabel(i18n.T("plan_file")),
		planSelectContainer,
		g.createLanguageSelector(),
	)
}

// loadPlanFile loads a saved plan into the editor
func (g *GUI) loadPlanFile(selected string) {
	if selected == "" {
		return
	}

	data, err := os.ReadFile(filepath.Join(g.plansDir, selected))
	if err != nil {
		g.statusLabel.SetText(i18n.Tf("parse_failed", err))
		return
	}

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err != nil {
		g.planEditor.SetText(string(data))
	} else {
		g.planEditor.SetText(prettyJSON.String())
	}
}

// savePlan writes the editor content to a chosen file
func (g *GUI) savePlan() {
	jsonStr := g.planEditor.Text
	if jsonStr == "" {
		g.statusLabel.SetText(i18n.T("no_plan"))
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write([]byte(jsonStr)); err != nil {
			dialog.ShowError(err, g.window)
			return
		}

		g.statusLabel.SetText(i18n.Tf("plan_saved", writer.URI().Path()))
		g.updatePlanFiles()
	}, g.window)

	saveDialog.SetFileName("plan.json")
	os.MkdirAll(g.plansDir, 0755)
	if listURI, err := storage.ListerForURI(storage.NewFileURI(g.plansDir)); err == nil {
		saveDialog.SetLocation(listURI)
	}
	saveDialog.Show()
}

// validatePlan reports on the editor content without executing it
func (g *GUI) validatePlan() {
	raw, report, ok := g.decodeEditorPlan()
	if !ok {
		return
	}

	if report.IsValid && report.WarningCount == 0 {
		dialog.ShowInformation(i18n.T("validate_plan"), i18n.Tf("plan_valid", raw.Goal), g.window)
		return
	}

	var lines []string
	for _, e := range report.Errors {
		lines = append(lines, "✗ "+e)
	}
	for _, w := range report.Warnings {
		lines = append(lines, "⚠ "+w)
	}

	message := widget.NewLabel(i18n.Tf("plan_invalid", report.ErrorCount, report.WarningCount) +
		"\n\n" + strings.Join(lines, "\n"))
	message.Wrapping = fyne.TextWrapWord
	dialog.ShowCustom(i18n.T("validate_plan"), i18n.T("close"),
		container.NewScroll(message), g.window)
}

// executePlan runs the editor content against the desktop
func (g *GUI) executePlan() {
	raw, report, ok := g.decodeEditorPlan()
	if !ok {
		return
	}
	if !report.IsValid {
		g.validatePlan()
		return
	}

	g.statusLabel.SetText(i18n.T("executing"))

	runner := automation.NewRunner(
		g.store,
		vision.New(g.client, g.log),
		automation.NewRobotActuator(true),
		recorder.New(g.log),
		g.log,
	)
	runner.OnStep = func(sr automation.StepResult) {
		g.statusLabel.SetText(i18n.Tf("step_running", sr.StepID, sr.Action))
	}

	// Execute in the background; input lands on other windows
	go func() {
		result := runner.Execute(raw, "")

		summary := i18n.Tf("execution_complete", result.SuccessfulSteps, result.TotalSteps)
		if result.VideoPath != "" {
			summary += "\n" + i18n.Tf("video_saved", result.VideoPath)
		}
		g.statusLabel.SetText(summary)
	}()
}

// decodeEditorPlan parses the editor content and validates it
func (g *GUI) decodeEditorPlan() (plan.RawPlan, plan.Report, bool) {
	jsonStr := g.planEditor.Text
	if jsonStr == "" {
		g.statusLabel.SetText(i18n.T("no_plan"))
		return plan.RawPlan{}, plan.Report{}, false
	}

	raw, err := plan.Decode([]byte(jsonStr))
	if err != nil {
		dialog.ShowError(err, g.window)
		return plan.RawPlan{}, plan.Report{}, false
	}

	return raw, plan.NewValidator(g.store).Report(raw), true
}
