package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/OguzhanUmutlu/helium/helium"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *helium.Engine
	scope       *helium.Scope
	stdout      *bytes.Buffer
	theme       *theme
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous input"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next input"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlK: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

// replKeywords are offered by autocomplete next to the visible names.
var replKeywords = []string{"function", "end", "return", "None", "True", "False"}

func newREPLModel(cfg cliConfig, logger *slog.Logger) replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "helium> "

	th := newTheme(os.Stdout, useColor(cfg.Color, os.Stdout))
	stdout := new(bytes.Buffer)
	engine := helium.MustNewEngine(helium.Config{
		Stdout:         stdout,
		Palette:        th.palette(),
		RecursionLimit: cfg.RecursionLimit,
		Logger:         logger,
	})

	return replModel{
		textInput:  ti,
		engine:     engine,
		scope:      engine.NewScope(),
		stdout:     stdout,
		theme:      th,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			return m.recall(-1), nil

		case key.Matches(msg, keys.Down):
			return m.recall(1), nil

		case key.Matches(msg, keys.Tab):
			return m.handleAutocomplete(), nil

		case key.Matches(msg, keys.Enter):
			return m.submit()
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through earlier inputs; stepping past the newest one
// clears the prompt.
func (m replModel) recall(step int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case step < 0 && m.historyIdx == -1:
		m.historyIdx = len(m.cmdHistory) - 1
	case step < 0:
		m.historyIdx = max(m.historyIdx-1, 0)
	case m.historyIdx == -1:
		return m
	case m.historyIdx < len(m.cmdHistory)-1:
		m.historyIdx++
	default:
		m.historyIdx = -1
	}
	if m.historyIdx == -1 {
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
	return m
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.SetValue("")
	m.historyIdx = -1

	if strings.HasPrefix(input, ":") {
		return m.handleCommand(input)
	}

	output, isErr, exited := m.evaluate(input)
	m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	m.cmdHistory = append(m.cmdHistory, input)
	if exited {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.scope = m.engine.NewScope()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Scope reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// completionPrefix returns the identifier being typed at the end of input.
func completionPrefix(input string) string {
	runes := []rune(input)
	i := len(runes)
	for i > 0 && isIdentRune(runes[i-1]) {
		i--
	}
	return string(runes[i:])
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func (m replModel) completions(prefix string) []string {
	var out []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	for _, name := range helium.BuiltinNames {
		add(name)
	}
	for _, kw := range replKeywords {
		add(kw)
	}
	for _, name := range m.scope.VisibleNames() {
		add(name)
	}
	slices.Sort(out)
	return out
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	prefix := completionPrefix(input)
	if prefix == "" {
		return m
	}

	completions := m.completions(prefix)
	switch {
	case len(completions) == 1:
		m.textInput.SetValue(strings.TrimSuffix(input, prefix) + completions[0])
		m.textInput.CursorEnd()
	case len(completions) > 1:
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// evaluate runs input against the session scope. Output written by print
// comes first, followed by the value of the last statement unless it is
// None and something was printed.
func (m replModel) evaluate(input string) (string, bool, bool) {
	m.stdout.Reset()
	script, err := m.engine.Compile(input)
	if err != nil {
		return m.renderError(err), true, false
	}

	result, err := script.Run(context.Background(), m.scope)
	printed := strings.TrimRight(m.stdout.String(), "\n")
	if err != nil {
		if code, ok := helium.IsExit(err); ok {
			return joinOutput(printed, fmt.Sprintf("exit(%d)", code)), false, true
		}
		return joinOutput(printed, m.renderError(err)), true, false
	}
	if result.IsNone() && printed != "" {
		return printed, false, false
	}
	return joinOutput(printed, helium.FormatValue(result, m.theme.palette())), false, false
}

func (m replModel) renderError(err error) string {
	var b strings.Builder
	m.theme.renderError(&b, err)
	return strings.TrimRight(b.String(), "\n")
}

func joinOutput(printed, tail string) string {
	if printed == "" {
		return tail
	}
	return printed + "\n" + tail
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("Helium REPL")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	names := m.scope.Names()
	reservedLines := 8
	if m.showHelp {
		reservedLines += 10
	}
	if m.showVars {
		reservedLines += len(names) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(len(m.history)-availableHeight, 0)
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString(indent(errorStyle.Render("✗ "+entry.output)) + "\n")
		} else {
			b.WriteString(indent(resultStyle.Render("→ ")+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(m.renderVarsPanel(names))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n    ")
}

func (m replModel) renderVarsPanel(names []string) string {
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		val, _ := m.scope.Get(name)
		line := fmt.Sprintf("  %s = %s", varNameStyle.Render(name), helium.FormatValue(val, m.theme.palette()))
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"Tab", "Autocomplete names"},
		{"Enter", "Run the input"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Start a fresh scope"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(cfg cliConfig) error {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	// The terminal belongs to the REPL; only a log file receives records.
	logger, closeLog, err := newLogger(level, io.Discard, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	p := tea.NewProgram(newREPLModel(cfg, logger), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
