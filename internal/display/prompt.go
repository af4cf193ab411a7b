package display

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const promptText = "ottocost> "

var inputEchoStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#a1a1aa"))

// UI is the interactive prompt, run through Bubble Tea.
//
// Typed lines arrive on [UI.Lines]; echoing them is up to the reader. UI is also an io.Writer: while the
// program runs, complete lines written to it are printed above the input
// line, so a [Printer] built on a UI never garbles the prompt. Before Run
// starts and after it returns, writes go straight to the fallback writer.
type UI struct {
	program  *tea.Program
	fallback io.Writer
	inputCh  chan string
	readyCh  chan struct{}
	running  atomic.Bool
	done     atomic.Bool

	mu  sync.Mutex
	buf []byte
}

// NewUI creates the prompt. Options are passed to tea.NewProgram.
func NewUI(fallback io.Writer, opts ...tea.ProgramOption) *UI {
	u := &UI{
		fallback: fallback,
		inputCh:  make(chan string, 16),
		readyCh:  make(chan struct{}),
	}

	ti := textinput.New()
	// Plain-text prompt: styled prompts break textinput's width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	m := promptModel{
		input:   ti,
		inputCh: u.inputCh,
		onReady: u.markReady,
	}
	u.program = tea.NewProgram(m, opts...)
	return u
}

// Run starts the event loop and blocks until the prompt quits. Lines is
// closed when Run returns.
func (u *UI) Run() error {
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.inputCh)
	u.flush()
	return err
}

// Lines delivers each non-blank line the user enters.
func (u *UI) Lines() <-chan string { return u.inputCh }

// Ready is closed once the event loop is running.
func (u *UI) Ready() <-chan struct{} { return u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() { u.program.Quit() }

// Write implements io.Writer. Output is held until a newline arrives.
func (u *UI) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.running.Load() || u.done.Load() {
		out := p
		if len(u.buf) > 0 {
			out = append(u.buf, p...)
			u.buf = nil
		}
		if _, err := u.fallback.Write(out); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	u.buf = append(u.buf, p...)
	i := bytes.LastIndexByte(u.buf, '\n')
	if i < 0 {
		return len(p), nil
	}
	text := string(u.buf[:i])
	u.buf = append(u.buf[:0], u.buf[i+1:]...)
	u.program.Println(text)
	return len(p), nil
}

// flush writes any partial line left when the program stopped.
func (u *UI) flush() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.buf) > 0 {
		fmt.Fprintln(u.fallback, string(u.buf))
		u.buf = nil
	}
}

func (u *UI) markReady() {
	u.running.Store(true)
	close(u.readyCh)
}

// ── Bubble Tea model ─────────────────────────────────────────────

type promptModel struct {
	input   textinput.Model
	inputCh chan<- string
	onReady func()
	width   int
}

func (m promptModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, signalReady(m.onReady))
}

func signalReady(fn func()) tea.Cmd {
	return func() tea.Msg {
		if fn != nil {
			fn()
		}
		return nil
	}
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				return m, tea.Quit
			}
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			m.inputCh <- v
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return m.input.View()
}
