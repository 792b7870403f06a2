// Package ui is the desktop front end: a chat pane that generates plans, a
// plan editor, and buttons to validate, execute and save plans.
package ui

import (
	"encoding/json"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskpilot/internal/ai"
	"deskpilot/internal/i18n"
	"deskpilot/internal/store"
)

// ChatMessage represents a message in the chat
type ChatMessage struct {
	Content string
	IsUser  bool
	Time    time.Time
}

// GUI holds the window state and widgets
type GUI struct {
	window    fyne.Window
	log       *slog.Logger
	store     *store.Store
	aiConfig  ai.Config
	client    *ai.Client
	generator *ai.Generator

	chatMessages []ChatMessage
	chatDisplay  *widget.RichText
	chatScroll   *container.Scroll
	messageInput *widget.Entry
	planEditor   *widget.Entry
	statusLabel  *widget.Label

	plansDir   string
	planFiles  []string
	planSelect *widget.Select

	activeDialogs []dialog.Dialog
}

// RunGUI starts the graphical user interface
func RunGUI(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	a := app.New()
	a.Settings().SetTheme(theme.DefaultTheme())
	w := a.NewWindow(i18n.T("app_title"))
	w.Resize(fyne.NewSize(1000, 700))

	gui := &GUI{
		window: w,
		log:    log,
		store:  store.New(),
	}

	gui.initAIConfig()
	gui.initChatInterface()
	gui.initPlanEditor()
	gui.initPlansDir()

	w.SetContent(gui.createMainLayout())
	w.ShowAndRun()
}

// initAIConfig loads the active provider configuration
func (g *GUI) initAIConfig() {
	config, err := ai.LoadConfig()
	if err != nil {
		dialog.ShowError(err, g.window)
	}
	g.aiConfig = config
	g.client = ai.NewClient(config)
	g.generator = ai.NewGenerator(g.client, g.store, g.log)
}

// initPlanEditor initializes the plan JSON editor
func (g *GUI) initPlanEditor() {
	g.planEditor = widget.NewMultiLineEntry()
	g.planEditor.SetPlaceHolder("{\n  \"goal\": \"...\",\n  \"steps\": []\n}")
	g.planEditor.Wrapping = fyne.TextWrapWord
	g.planEditor.SetMinRowsVisible(3)
}

// createPlanContainer creates the plan editor container
func (g *GUI) createPlanContainer() fyne.CanvasObject {
	formatButton := widget.NewButtonWithIcon(i18n.T("format_json"), theme.DocumentIcon(), func() {
		g.formatJSON()
	})

	titleBar := container.NewBorder(
		nil, nil, nil, formatButton,
		widget.NewLabel(i18n.T("plan_editor")),
	)

	return container.NewBorder(
		titleBar,
		nil, nil, nil,
		container.NewScroll(g.planEditor),
	)
}

// formatJSON reindents the editor content
func (g *GUI) formatJSON() {
	currentText := g.planEditor.Text
	if currentText == "" {
		return
	}

	var jsonData interface{}
	if err := json.Unmarshal([]byte(currentText), &jsonData); err != nil {
		dialog.ShowError(err, g.window)
		return
	}

	formatted, err := json.MarshalIndent(jsonData, "", "  ")
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}

	g.planEditor.SetText(string(formatted))
	g.statusLabel.SetText(i18n.T("json_reformat"))
}

// createMainLayout creates the main layout
func (g *GUI) createMainLayout() fyne.CanvasObject {
	split := container.NewHSplit(
		g.createChatContainer(),
		g.createPlanContainer(),
	)
	split.SetOffset(0.5)

	return container.NewBorder(
		g.createToolbar(),
		container.NewVBox(g.statusLabel, g.createButtonContainer()),
		nil,
		nil,
		split,
	)
}

// createButtonContainer creates the action buttons
func (g *GUI) createButtonContainer() fyne.CanvasObject {
	validateBtn := widget.NewButtonWithIcon(i18n.T("validate_plan"), theme.ConfirmIcon(), func() {
		g.validatePlan()
	})

	executeBtn := widget.NewButtonWithIcon(i18n.T("execute_plan"), theme.MediaPlayIcon(), func() {
		g.executePlan()
	})

	saveBtn := widget.NewButtonWithIcon(i18n.T("save_plan"), theme.DocumentSaveIcon(), func() {
		g.savePlan()
	})

	getPositionBtn := widget.NewButtonWithIcon(i18n.T("get_position"), theme.VisibilityIcon(), func() {
		g.getMousePosition()
	})

	getProcessBtn := widget.NewButtonWithIcon(i18n.T("get_process_info"), theme.ComputerIcon(), func() {
		g.getProcessInfo()
	})

	settingsBtn := widget.NewButtonWithIcon(i18n.T("ai_settings"), theme.SettingsIcon(), func() {
		g.showAISettings()
	})

	return container.NewHBox(
		validateBtn,
		executeBtn,
		saveBtn,
		getPositionBtn,
		getProcessBtn,
		settingsBtn,
	)
}
