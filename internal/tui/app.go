// Package tui is the interactive terminal UI: a task list view and a chat
// view over the same session state.
//
// It follows The Elm Architecture via bubbletea: all state lives in App,
// Update reacts to messages, View renders. The views are pure projections.
// Every mutation goes through the session's TaskStore or Transcript, and
// the rendered snapshots arrive through the stores' change notifications,
// so the speculative state of an in-flight mutation is visible immediately.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskai/internal/service"
	"taskai/internal/state"
)

// screen represents which view is active.
type screen int

const (
	screenTasks screen = iota
	screenChat
)

// inputMode tracks what the text input is collecting on the tasks screen.
type inputMode int

const (
	inputNone inputMode = iota
	inputNewTask
)

type (
	// tasksChangedMsg carries a task cache snapshot from the store.
	tasksChangedMsg []service.Task

	// messagesChangedMsg carries a transcript snapshot.
	messagesChangedMsg []service.Message

	// opDoneMsg reports the outcome of an async mutation.
	opDoneMsg struct{ err error }

	// sendDoneMsg reports the outcome of a chat send.
	sendDoneMsg struct{ err error }
)

// App is the bubbletea model holding all UI state.
type App struct {
	ctx  context.Context
	sess *state.Session

	active screen
	tasks  []service.Task
	msgs   []service.Message
	cursor int
	mode   inputMode

	input    textinput.Model
	chat     textinput.Model
	spin     spinner.Model
	sending  bool
	status   string
	statusIs error
	width    int
	height   int

	taskCh chan []service.Task
	msgCh  chan []service.Message
}

// NewApp wires an App to the session's stores.
func NewApp(ctx context.Context, sess *state.Session) *App {
	input := textinput.New()
	input.Placeholder = "task title"
	input.CharLimit = service.MaxTitleLen

	chat := textinput.New()
	chat.Placeholder = "ask the assistant"
	chat.CharLimit = 2000

	a := &App{
		ctx:    ctx,
		sess:   sess,
		input:  input,
		chat:   chat,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		taskCh: make(chan []service.Task, 16),
		msgCh:  make(chan []service.Message, 16),
	}

	// Bridge store notifications into the bubbletea loop. The listeners
	// only enqueue; when the channel is full the oldest queued snapshot is
	// evicted so the latest one always lands and the view never sticks on
	// stale state.
	sess.Tasks.OnTasksChanged(func(tasks []service.Task) {
		for {
			select {
			case a.taskCh <- tasks:
				return
			default:
			}
			select {
			case <-a.taskCh:
			default:
			}
		}
	})
	sess.Chat.OnMessagesChanged(func(msgs []service.Message) {
		for {
			select {
			case a.msgCh <- msgs:
				return
			default:
			}
			select {
			case <-a.msgCh:
			default:
			}
		}
	})

	return a
}

// Run starts the UI and blocks until the user quits.
func Run(ctx context.Context, sess *state.Session) error {
	p := tea.NewProgram(NewApp(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the initial task list and conversation history.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshCmd(service.TaskQuery{}),
		a.loadChatCmd(),
		a.waitTasks(),
		a.waitMessages(),
		a.spin.Tick,
	)
}

// waitTasks delivers the next task snapshot as a message.
func (a *App) waitTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksChangedMsg(<-a.taskCh)
	}
}

// waitMessages delivers the next transcript snapshot as a message.
func (a *App) waitMessages() tea.Cmd {
	return func() tea.Msg {
		return messagesChangedMsg(<-a.msgCh)
	}
}

func (a *App) refreshCmd(q service.TaskQuery) tea.Cmd {
	return func() tea.Msg {
		_, err := a.sess.Tasks.Refresh(a.ctx, q)
		return opDoneMsg{err: err}
	}
}

func (a *App) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.sess.Tasks.ToggleComplete(a.ctx, id)
		return opDoneMsg{err: err}
	}
}

func (a *App) createCmd(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.sess.Tasks.Create(a.ctx, service.TaskDraft{Title: title})
		return opDoneMsg{err: err}
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: a.sess.Tasks.Delete(a.ctx, id)}
	}
}

func (a *App) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.sess.Chat.Send(a.ctx, text)
		return sendDoneMsg{err: err}
	}
}

func (a *App) loadChatCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := a.sess.Chat.Load(a.ctx)
		return opDoneMsg{err: err}
	}
}

// Update reacts to one message and returns the next model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tasksChangedMsg:
		a.tasks = msg
		if a.cursor >= len(a.tasks) {
			a.cursor = len(a.tasks) - 1
		}
		if a.cursor < 0 {
			a.cursor = 0
		}
		return a, a.waitTasks()

	case messagesChangedMsg:
		a.msgs = msg
		return a, a.waitMessages()

	case opDoneMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			a.statusIs = msg.err
		} else {
			a.status = ""
			a.statusIs = nil
		}
		return a, nil

	case sendDoneMsg:
		a.sending = false
		if msg.err != nil {
			a.status = "no reply: " + msg.err.Error()
			a.statusIs = msg.err
		} else {
			a.status = ""
			a.statusIs = nil
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry modes capture everything except escape/enter/ctrl+c.
	if a.mode == inputNewTask {
		return a.handleNewTaskKey(msg)
	}
	if a.active == screenChat && a.chat.Focused() {
		return a.handleChatKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		if a.active == screenTasks {
			a.active = screenChat
			a.chat.Focus()
			return a, textinput.Blink
		}
		a.active = screenTasks
		a.chat.Blur()
		return a, nil
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "j":
		if a.cursor < len(a.tasks)-1 {
			a.cursor++
		}
		return a, nil
	case " ", "enter", "x":
		if a.active == screenTasks && a.cursor < len(a.tasks) {
			return a, a.toggleCmd(a.tasks[a.cursor].ID)
		}
		return a, nil
	case "a":
		if a.active == screenTasks {
			a.mode = inputNewTask
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, nil
	case "d":
		if a.active == screenTasks && a.cursor < len(a.tasks) {
			return a, a.deleteCmd(a.tasks[a.cursor].ID)
		}
		return a, nil
	case "r":
		return a, a.refreshCmd(service.TaskQuery{})
	}

	return a, nil
}

func (a *App) handleNewTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.mode = inputNone
		a.input.Reset()
		a.input.Blur()
		return a, nil
	case "enter":
		title := a.input.Value()
		a.mode = inputNone
		a.input.Reset()
		a.input.Blur()
		if title == "" {
			return a, nil
		}
		return a, a.createCmd(title)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab", "esc":
		a.active = screenTasks
		a.chat.Blur()
		return a, nil
	case "enter":
		// Input stays disabled while a send is pending; the adapter would
		// reject the second send anyway.
		if a.sending {
			return a, nil
		}
		text := a.chat.Value()
		if text == "" {
			return a, nil
		}
		a.chat.Reset()
		a.sending = true
		return a, a.sendCmd(text)
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}
