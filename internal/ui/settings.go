package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"deskpilot/internal/ai"
	"deskpilot/internal/i18n"
)

// showAISettings displays the AI settings dialog
func (g *GUI) showAISettings() {
	w := fyne.CurrentApp().NewWindow(i18n.T("settings_title"))
	w.Resize(fyne.NewSize(500, 400))

	currentProvider := g.aiConfig.Type
	if currentProvider == "" {
		currentProvider = ai.ProviderOpenAI
	}

	providers := []string{ai.ProviderOpenAI, ai.ProviderAzure, ai.ProviderDeepSeek, ai.ProviderGroq}
	providerSelect := widget.NewSelect(providers, nil)
	providerSelect.SetSelected(currentProvider)

	apiKeyEntry := widget.NewPasswordEntry()
	apiKeyEntry.SetText(g.aiConfig.APIKey)

	modelEntry := widget.NewEntry()
	modelEntry.SetText(g.aiConfig.Model)

	visionModelEntry := widget.NewEntry()
	visionModelEntry.SetText(g.aiConfig.VisionModel)

	endpointEntry := widget.NewEntry()
	endpointEntry.SetText(g.aiConfig.Endpoint)

	apiVersionEntry := widget.NewEntry()
	apiVersionEntry.SetText(g.aiConfig.APIVersion)

	proxyEntry := widget.NewEntry()
	proxyEntry.SetText(g.aiConfig.ProxyURL)
	proxyEntry.SetPlaceHolder("http://127.0.0.1:7890")

	providerSelect.OnChanged = func(selected string) {
		if selected == currentProvider {
			return
		}
		newConfig, err := ai.SwitchProvider(selected)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}

		apiKeyEntry.SetText(newConfig.APIKey)
		modelEntry.SetText(newConfig.Model)
		visionModelEntry.SetText(newConfig.VisionModel)
		endpointEntry.SetText(newConfig.Endpoint)
		apiVersionEntry.SetText(newConfig.APIVersion)
		proxyEntry.SetText(newConfig.ProxyURL)

		currentProvider = selected
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: i18n.T("ai_platform"), Widget: providerSelect},
			{Text: i18n.T("api_key"), Widget: apiKeyEntry},
			{Text: i18n.T("model"), Widget: modelEntry},
			{Text: i18n.T("vision_model"), Widget: visionModelEntry},
			{Text: i18n.T("api_endpoint"), Widget: endpointEntry},
			{Text: i18n.T("api_version"), Widget: apiVersionEntry},
			{Text: i18n.T("proxy_url"), Widget: proxyEntry},
		},
		OnSubmit: func() {
			newConfig := ai.Config{
				Type:        providerSelect.Selected,
				APIKey:      apiKeyEntry.Text,
				Model:       modelEntry.Text,
				VisionModel: visionModelEntry.Text,
				Endpoint:    endpointEntry.Text,
				APIVersion:  apiVersionEntry.Text,
				ProxyURL:    proxyEntry.Text,
			}

			if err := ai.SaveConfig(newConfig); err != nil {
				dialog.ShowError(err, w)
				return
			}

			g.aiConfig = newConfig
			g.client = ai.NewClient(newConfig)
			g.generator = ai.NewGenerator(g.client, g.store, g.log)
			g.statusLabel.SetText(i18n.T("settings_updated"))

			w.Close()
		},
		SubmitText: i18n.T("save"),
	}

	w.SetContent(form)
	w.Show()
}
