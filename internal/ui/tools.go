package ui

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"deskpilot/internal/automation"
	"deskpilot/internal/i18n"
	"deskpilot/internal/store"
)

// getMousePosition captures the next mouse click position
func (g *GUI) getMousePosition() {
	infoDialog := dialog.NewInformation(
		i18n.T("get_position_title"),
		i18n.T("get_position_desc"),
		g.window)
	infoDialog.SetOnClosed(func() {
		time.Sleep(1 * time.Second)

		go func() {
			x, y, err := automation.CaptureClickPosition(10 * time.Second)
			if err != nil {
				dialog.ShowError(err, g.window)
				return
			}

			g.window.Clipboard().SetContent(fmt.Sprintf("X=%d, Y=%d", x, y))
			g.statusLabel.SetText(i18n.Tf("position_copied", x, y))
		}()
	})
	infoDialog.Show()
}

// getProcessInfo presents the running applications and inserts an
// open_application step for the chosen one
func (g *GUI) getProcessInfo() {
	progress := dialog.NewProgressInfinite(
		i18n.T("get_process_info"),
		i18n.T("getting_app_list"),
		g.window)
	progress.Show()

	go func() {
		processes, err := automation.GetRunningProcesses()
		progress.Hide()

		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if len(processes) == 0 {
			dialog.ShowInformation(
				i18n.T("get_process_info"),
				i18n.T("no_apps_found"),
				g.window)
			return
		}

		var allItems []string
		for _, p := range processes {
			allItems = append(allItems, p.Name)
		}

		searchEntry := widget.NewEntry()
		searchEntry.SetPlaceHolder(i18n.T("select_app"))

		filteredItems := allItems

		processList := widget.NewList(
			func() int { return len(filteredItems) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				obj.(*widget.Label).SetText(filteredItems[id])
			},
		)

		searchEntry.OnChanged = func(text string) {
			if text == "" {
				filteredItems = allItems
			} else {
				filteredItems = []string{}
				for _, item := range allItems {
					if strings.Contains(strings.ToLower(item), strings.ToLower(text)) {
						filteredItems = append(filteredItems, item)
					}
				}
			}
			processList.Refresh()
		}

		processList.OnSelected = func(id widget.ListItemID) {
			g.insertOpenStep(filteredItems[id])
			g.closeAllDialogs()
		}

		content := container.NewBorder(
			container.NewVBox(
				widget.NewLabel(i18n.T("select_app")),
				searchEntry,
			),
			nil, nil, nil,
			container.NewScroll(processList),
		)
		content.Resize(fyne.NewSize(500, 400))

		listDialog := dialog.NewCustom(
			i18n.T("get_process_info"),
			i18n.T("cancel"),
			content,
			g.window)
		g.activeDialogs = append(g.activeDialogs, listDialog)
		listDialog.Resize(fyne.NewSize(550, 450))
		listDialog.Show()
	}()
}

// insertOpenStep appends an open_application step for app to the editor plan,
// with the wait step the validator expects after it
func (g *GUI) insertOpenStep(app string) {
	snippet := fmt.Sprintf(`    {"id": 1, "action": "%s", "target": "%s", "value": null},
    {"id": 2, "action": "%s", "target": "screen", "value": "4"}`,
		store.ActionOpenApplication, app, store.ActionWait)

	current := strings.TrimSpace(g.planEditor.Text)
	if current == "" {
		g.planEditor.SetText(fmt.Sprintf("{\n  \"goal\": \"\",\n  \"steps\": [\n%s\n  ]\n}", snippet))
	} else {
		g.window.Clipboard().SetContent(snippet)
	}
	g.statusLabel.SetText(i18n.Tf("app_name", app))
}

// closeAllDialogs closes all active dialogs
func (g *GUI) closeAllDialogs() {
	go func() {
		time.Sleep(50 * time.Millisecond)
		for _, d := range g.activeDialogs {
			d.Hide()
		}
		g.activeDialogs = nil
	}()
}
