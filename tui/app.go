// app.go is the top-level Bubble Tea model for the chat shell.
//
// Flow:
//  1. On first run (no provider configured) an inline setup flow asks
//     for a provider and, when needed, an API key.
//  2. Each submitted message is streamed back from the provider by a
//     background worker, one fragment per Bubble Tea message.
//  3. A completed response is scanned for an action token; the first
//     match is routed, its report shown, and — when the handler asks
//     for it — a synthetic system turn triggers a fresh assistant turn.
//
// The session is only ever mutated from this update loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/datatalk-ai/datatalk/action"
	"github.com/datatalk-ai/datatalk/ai"
	"github.com/datatalk-ai/datatalk/applog"
	"github.com/datatalk-ai/datatalk/config"
	"github.com/datatalk-ai/datatalk/session"
)

const appVersion = "0.1.0"

const welcomeText = `**Talk to your data, get predictions.**

I help you turn spreadsheets and databases into ML models — no coding needed.
Try something like:

- *"I have a CSV with customer data, help me predict who will leave"*
- *"Connect to my postgres database"*
- *"Load sales.xlsx and predict next month's revenue"*`

// setupStage tracks the first-run configuration flow.
type setupStage int

const (
	setupDone setupStage = iota
	setupProvider
	setupKey
)

// entryKind classifies a transcript entry for rendering.
type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entrySystem
)

type entry struct {
	kind entryKind
	text string
}

// App is the root Bubble Tea model.
type App struct {
	store  *config.Store
	client *ai.Client
	sess   *session.Session
	router *action.Router

	viewport *Viewport
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	entries   []entry
	streaming string // in-flight assistant text
	busy      bool
	cancel    context.CancelFunc

	setup  setupStage
	width  int
	height int
}

// NewApp creates the chat application.
func NewApp(store *config.Store) *App {
	sess := session.New()

	input := textinput.New()
	input.Placeholder = "Ask me anything about your data..."
	input.Prompt = StylePrompt.Render("> ")
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return &App{
		store:    store,
		client:   ai.NewClient(store),
		sess:     sess,
		router:   action.NewRouter(sess),
		viewport: NewViewport(80, 20),
		input:    input,
		spin:     spin,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.entries = append(a.entries, entry{kind: entryAssistant, text: welcomeText})

	if !a.client.Configured() {
		a.setup = setupProvider
		a.entries = append(a.entries, entry{
			kind: entrySystem,
			text: "First-time setup: which AI provider do you want to use?\n" +
				"Type one of: " + providerList(),
		})
	}
	a.refresh()
	return tea.Batch(textinput.Blink, a.spin.Tick)
}

func providerList() string {
	names := make([]string, 0, len(config.ProviderNames))
	for _, p := range config.ProviderNames {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// header(1) + blank(1) + input(1) + helpbar(1) = 4 lines of chrome
		a.viewport.SetSize(msg.Width, msg.Height-4)
		a.input.Width = msg.Width - 4
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(msg.Width, 100)),
		); err == nil {
			a.renderer = r
		}
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.busy {
			a.refresh()
		}
		return a, cmd

	case streamStartedMsg:
		return a, pump(msg.ch)

	case streamChunkMsg:
		a.streaming += msg.text
		a.refresh()
		return a, pump(msg.ch)

	case streamDoneMsg:
		return a.finishResponse()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a.quit()
	case "esc":
		if a.busy && a.cancel != nil {
			a.cancel()
		}
		return a, nil
	case "ctrl+l":
		a.clearChat()
		return a, nil
	case "enter":
		return a.submit()
	case "up":
		a.viewport.ScrollUp(1)
		a.refresh()
		return a, nil
	case "down":
		a.viewport.ScrollDown(1)
		a.refresh()
		return a, nil
	case "pgup":
		a.viewport.PageUp()
		a.refresh()
		return a, nil
	case "pgdown":
		a.viewport.PageDown()
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.cancel != nil {
		a.cancel()
	}
	a.sess.Reset()
	applog.Sync()
	return a, tea.Quit
}

func (a *App) clearChat() {
	a.entries = []entry{{kind: entryAssistant, text: welcomeText}}
	a.sess.ClearConversation()
	a.refresh()
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return a, nil
	}
	a.input.SetValue("")

	if lower := strings.ToLower(text); lower == "exit" || lower == "quit" {
		return a.quit()
	}

	if a.setup != setupDone {
		// Don't echo API keys into the transcript.
		if a.setup != setupKey {
			a.entries = append(a.entries, entry{kind: entryUser, text: text})
		}
		a.handleSetup(text)
		a.refresh()
		return a, nil
	}

	if a.busy {
		// One streaming call in flight at a time; drop extra sends.
		return a, nil
	}

	a.entries = append(a.entries, entry{kind: entryUser, text: text})
	a.sess.AddMessage(ai.RoleUser, text)
	a.refresh()
	return a, a.startStream()
}

// handleSetup drives the first-run provider/key flow.
func (a *App) handleSetup(text string) {
	switch a.setup {
	case setupProvider:
		name := strings.ToLower(strings.TrimSpace(text))
		if !config.ValidProvider(name) {
			a.entries = append(a.entries, entry{
				kind: entrySystem,
				text: fmt.Sprintf("I don't recognize %q. Please pick one of: %s", text, providerList()),
			})
			return
		}
		provider := config.Provider(name)
		if err := a.store.SetProvider(provider); err != nil {
			a.entries = append(a.entries, entry{kind: entrySystem, text: "Could not save config: " + err.Error()})
			return
		}

		if !provider.RequiresKey() {
			a.setup = setupDone
			a.entries = append(a.entries, entry{
				kind: entrySystem,
				text: fmt.Sprintf("Set up with %s (local). Using model %s.\nYou're all set! What data are you working with?",
					provider, a.store.Model()),
			})
			return
		}

		a.setup = setupKey
		a.input.EchoMode = textinput.EchoPassword
		a.entries = append(a.entries, entry{
			kind: entrySystem,
			text: fmt.Sprintf("Got it — %s. Now paste your API key:", provider),
		})

	case setupKey:
		if err := a.store.SetAPIKey(strings.TrimSpace(text)); err != nil {
			a.entries = append(a.entries, entry{kind: entrySystem, text: "Could not save config: " + err.Error()})
			return
		}
		a.setup = setupDone
		a.input.EchoMode = textinput.EchoNormal
		a.entries = append(a.entries, entry{
			kind: entrySystem,
			text: fmt.Sprintf("All set! Using %s with model %s.\nWhat data are you working with today?",
				a.store.Provider(), a.store.Model()),
		})
	}
}

// startStream kicks off a provider call in a background worker.
func (a *App) startStream() tea.Cmd {
	a.busy = true
	a.streaming = ""

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	msgs := make([]ai.Message, len(a.sess.Conversation))
	copy(msgs, a.sess.Conversation)
	system := ai.BuildSystem(a.sess.ContextSummary())

	client := a.client
	return func() tea.Msg {
		return streamStartedMsg{ch: client.Stream(ctx, msgs, system)}
	}
}

// pump reads one fragment from the stream and re-arms itself.
func pump(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return streamChunkMsg{text: text, ch: ch}
	}
}

// finishResponse records the completed turn and routes the first
// action token, if any.
func (a *App) finishResponse() (tea.Model, tea.Cmd) {
	full := a.streaming
	a.streaming = ""
	a.busy = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	a.entries = append(a.entries, entry{kind: entryAssistant, text: full})
	a.sess.AddMessage(ai.RoleAssistant, full)

	// First token wins; any extra tokens are discarded.
	tokens := action.Parse(full)
	if len(tokens) > 0 {
		tok := tokens[0]
		outcome, ok := a.router.Execute(context.Background(), tok.Name, tok.Arg)
		if ok {
			if outcome.Report != "" {
				a.entries = append(a.entries, entry{kind: entrySystem, text: outcome.Report})
			}
			if outcome.FollowUp != "" {
				a.sess.AddMessage(ai.RoleUser, outcome.FollowUp)
				a.refresh()
				return a, a.startStream()
			}
		}
	}

	a.refresh()
	return a, nil
}

// refresh rebuilds the transcript text and pushes it to the viewport.
func (a *App) refresh() {
	var sb strings.Builder

	for _, e := range a.entries {
		switch e.kind {
		case entryUser:
			sb.WriteString(StyleUser.Render("You: ") + e.text + "\n\n")
		case entryAssistant:
			sb.WriteString(StyleAssistant.Render("AI:") + "\n")
			sb.WriteString(a.renderMarkdown(e.text))
			sb.WriteString("\n")
		case entrySystem:
			sb.WriteString(StyleSystem.Render(e.text) + "\n\n")
		}
	}

	if a.busy {
		sb.WriteString(StyleAssistant.Render("AI:") + "\n")
		if a.streaming == "" {
			sb.WriteString(a.spin.View() + StyleDimmed.Render(" thinking...") + "\n")
		} else {
			sb.WriteString(a.streaming + "█\n")
		}
	}

	a.viewport.SetContent(sb.String())
}

// renderMarkdown renders finalized assistant text via glamour, falling
// back to the raw text when rendering fails.
func (a *App) renderMarkdown(text string) string {
	if a.renderer == nil {
		return text + "\n"
	}
	out, err := a.renderer.Render(text)
	if err != nil {
		return text + "\n"
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()
	helpBar := a.renderHelpBar()

	return header + "\n" + a.viewport.Render() + "\n" + a.input.View() + "\n" + helpBar
}

func (a *App) renderHeader() string {
	logo := StyleBold.Render("datatalk")
	version := StyleDimmed.Render(" v" + appVersion)
	left := logo + version

	var providerInfo string
	if a.client.Configured() {
		providerInfo = StyleSuccess.Render("  ⚡ " + a.client.ProviderName())
	}
	var dataInfo string
	if a.sess.Data != nil {
		dataInfo = StyleDimmed.Render(fmt.Sprintf("  %s (%d×%d)",
			a.sess.DataSource, a.sess.Data.NumRows(), a.sess.Data.NumCols()))
	} else if a.sess.Conn != nil {
		dataInfo = StyleDimmed.Render("  db connected")
	}

	content := left + providerInfo + dataInfo
	gap := a.width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return content + strings.Repeat(" ", gap)
}

func (a *App) renderHelpBar() string {
	items := [][2]string{
		{"Enter", "send"},
		{"Esc", "interrupt"},
		{"Ctrl+L", "clear"},
		{"PgUp/PgDn", "scroll"},
		{"Ctrl+C", "quit"},
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, StyleHelpKey.Render(it[0])+" "+StyleHelpDesc.Render(it[1]))
	}
	return StyleStatusBar.Width(a.width).Render(strings.Join(parts, "  │  "))
}
