package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskpilot/internal/i18n"
)

// initChatInterface initializes the chat pane
func (g *GUI) initChatInterface() {
	g.chatMessages = append(g.chatMessages, ChatMessage{
		Content: i18n.T("welcome_message"),
		IsUser:  false,
		Time:    time.Now(),
	})

	g.chatDisplay = widget.NewRichText()
	g.chatDisplay.Wrapping = fyne.TextWrapWord

	g.statusLabel = widget.NewLabel("")

	g.messageInput = widget.NewMultiLineEntry()
	g.messageInput.SetPlaceHolder(i18n.T("input_placeholder"))
	g.messageInput.Wrapping = fyne.TextWrapWord
	g.messageInput.SetMinRowsVisible(3)

	g.updateChatDisplay()
}

// createChatContainer creates the chat container
func (g *GUI) createChatContainer() fyne.CanvasObject {
	sendButton := widget.NewButtonWithIcon(i18n.T("send"), theme.MailSendIcon(), func() {
		g.sendMessage()
	})

	g.chatScroll = container.NewScroll(g.chatDisplay)

	inputContainer := container.NewBorder(
		nil, nil, nil, sendButton,
		g.messageInput,
	)

	return container.NewBorder(
		widget.NewLabel(i18n.T("chat_area")),
		inputContainer,
		nil, nil,
		g.chatScroll,
	)
}

// sendMessage generates a plan from the typed instruction
func (g *GUI) sendMessage() {
	instruction := g.messageInput.Text
	if instruction == "" {
		return
	}

	g.chatMessages = append(g.chatMessages, ChatMessage{
		Content: instruction,
		IsUser:  true,
		Time:    time.Now(),
	})
	g.messageInput.SetText("")

	g.chatMessages = append(g.chatMessages, ChatMessage{
		Content: i18n.T("thinking"),
		IsUser:  false,
		Time:    time.Now(),
	})
	g.updateChatDisplay()

	// Generate in the background so the window stays responsive
	go func() {
		jsonStr, report, err := g.generator.Generate(instruction)

		lastIndex := len(g.chatMessages) - 1
		switch {
		case err != nil:
			g.chatMessages[lastIndex] = ChatMessage{
				Content: i18n.Tf("generate_failed", err),
				IsUser:  false,
				Time:    time.Now(),
			}
		case !report.IsValid:
			g.chatMessages[lastIndex] = ChatMessage{
				Content: i18n.Tf("plan_has_errors", report.ErrorCount),
				IsUser:  false,
				Time:    time.Now(),
			}
			g.planEditor.SetText(jsonStr)
		case report.WarningCount > 0:
			g.chatMessages[lastIndex] = ChatMessage{
				Content: i18n.Tf("plan_has_warnings", report.WarningCount),
				IsUser:  false,
				Time:    time.Now(),
			}
			g.planEditor.SetText(jsonStr)
		default:
			g.chatMessages[lastIndex] = ChatMessage{
				Content: i18n.T("plan_generated"),
				IsUser:  false,
				Time:    time.Now(),
			}
			g.planEditor.SetText(jsonStr)
		}

		g.updateChatDisplay()
	}()
}

// updateChatDisplay rerenders the chat messages
func (g *GUI) updateChatDisplay() {
	g.chatDisplay.Segments = []widget.RichTextSegment{}
	for _, msg := range g.chatMessages {
		color := theme.ColorNameForeground
		speaker := i18n.T("ai")
		if msg.IsUser {
			color = theme.ColorNamePrimary
			speaker = i18n.T("you")
		}
		g.chatDisplay.Segments = append(g.chatDisplay.Segments, &widget.TextSegment{
			Text: fmt.Sprintf("%s: %s\n\n", speaker, msg.Content),
			Style: widget.RichTextStyle{
				ColorName: color,
				TextStyle: fyne.TextStyle{Bold: true},
			},
		})
	}
	g.chatDisplay.Refresh()

	// Scroll to bottom once the content has settled
	go func() {
		time.Sleep(100 * time.Millisecond)
		if g.chatScroll != nil {
			g.chatScroll.ScrollToBottom()
		}
	}()
}
