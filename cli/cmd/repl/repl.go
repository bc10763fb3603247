package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/log"
)

// editSourceMsg carries source saved from the editor.
type editSourceMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a syntax
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "calc> "
	ctrlPrompt = "   : "
)

const helpMessage = `
Commands (press Esc to toggle mode):

  help     Print this help
  list     List variables and functions
  source   Print the session source
  edit     Edit the session source in $EDITOR and run it again
  clear    Clear screen
  quit     Exit

Each line is a complete program unit; the final "." may be omitted.
Names and functions stay defined for the following lines.

  Tab / Shift-Tab   cycle completions
  Up / Down         history (switches mode as needed)
  Shift-Up / Down   history of the current mode only
  Ctrl-C / Ctrl-D   exit on an empty line
`

type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config configures an interactive session.
type Config struct {
	// Preload is run before the first prompt, if not nil.
	Preload io.Reader
	// Input is read by leia. Nil reads nothing: leia fails at end of input.
	Input io.Reader
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	stdin        io.Reader
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the interactive loop and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("preload", cfg.Preload != nil))

	stdin := cfg.Input
	if stdin == nil {
		stdin = strings.NewReader("")
	}

	session := NewSession(stdin, cfg.Logger)

	if cfg.Preload != nil {
		src, err := io.ReadAll(cfg.Preload)
		if err != nil {
			return err
		}

		out, err := session.Exec(ctx, string(src))
		fmt.Print(out.Output)

		for _, d := range out.Diagnostics {
			fmt.Println(formatDiagnostic(d))
		}

		if err != nil {
			return err
		}
	}

	var historyPath string
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	m := newModel(ctx, session, stdin, history, cfg.Logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	stdin io.Reader,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		stdin:      stdin,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editSourceMsg:
		return m.reload(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, byteOffset(input, m.input.Position()))

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: help, list, source, edit, clear, quit (Esc returns)"))
		}

	case call.inCall && m.mode == modeEval && !m.tabActive:
		if params, ok := getSignature(m.session, call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))

			break
		}

		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	default:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(+1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(+1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Deletions and cursor movement never auto-confirm a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected completion by step, wrapping around. A single
// candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word under the cursor with replacement.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)
	value := input[:m.wordStart] + replacement + input[m.wordEnd:]

	m.input.SetValue(value)
	m.input.SetCursor(utf8.RuneCountInString(value[:cursor]))

	m.wordEnd = cursor
}

// refreshMatches recomputes the completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "history write failed",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	return m, tea.Sequence(append([]tea.Cmd{echo}, m.exec(input)...)...)
}

// exec runs src in the session and returns the commands printing its
// output, diagnostics and error.
func (m model) exec(src string) []tea.Cmd {
	ctx := m.ctxFunc()

	out, err := m.session.Exec(ctx, src)

	m.logger.TraceContext(ctx, "repl exec",
		slog.String("input", src),
		slog.Bool("ok", err == nil))

	var cmds []tea.Cmd

	for _, d := range out.Diagnostics {
		cmds = append(cmds, tea.Println(formatDiagnostic(d)))
	}

	if text := strings.TrimSuffix(out.Output, "\n"); out.Output != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(text)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return cmds
}

// reload replaces the session with a new one running source.
func (m model) reload(source string) (model, tea.Cmd) {
	m.session = NewSession(m.stdin, m.logger)

	cmds := append(
		[]tea.Cmd{tea.Println(hintStyle.Render("session reloaded"))},
		m.exec(source)...)

	refreshMatches(&m, false)

	return m, tea.Sequence(cmds...)
}

func formatDiagnostic(d check.Diagnostic) string {
	s := warnStyle.Render("warning: " + d.Error())
	if d.Suggestion != "" {
		s += hintStyle.Render(" (did you mean " + d.Suggestion + "?)")
	}

	return s
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.list()))

	case "s", "source":
		return m, tea.Sequence(echo, tea.Println(m.session.Source()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + parts[0] + " (try help)"))
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editSourceCommand{
		source:  m.session.Source(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == "":
			return editCancelledMsg{}
		}

		return editSourceMsg{source: cmd.edited}
	})
}

// list renders every session name with its type and current value, and
// every function with its parameters.
func (m model) list() string {
	var b strings.Builder

	for _, name := range m.session.Names() {
		if params, ok := getSignature(m.session, name); ok {
			fmt.Fprintf(&b, "  %s\n", renderSignatureHint(name, params, -1))

			continue
		}

		typ, _ := m.session.Type(name)
		val, ok := m.session.Value(name)

		preview := "unset"
		if ok {
			preview = eval.Format(val)
		}

		fmt.Fprintf(&b, "  %s %s %s\n", name,
			hintStyle.Render(typ.String()), resultStyle.Render(preview))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (empty)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// historyStep moves through the history by dir. Outside inMode, the input
// mode follows the entry recalled.
func (m model) historyStep(dir int, inMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (inMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(utf8.RuneCountInString(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode changes the input mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
