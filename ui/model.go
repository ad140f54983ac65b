// Package ui is the terminal chat client: a room list, a header naming the
// active room, a scrollable message list and an input line.
package ui

import (
	"cool-chat/domain"
	"cool-chat/ws"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type Direction int

const (
	Outgoing Direction = iota
	Incoming
	System
)

// Bubble is one entry of the message list.
type Bubble struct {
	Direction Direction
	Author    string
	Text      string
	Time      string
	// Failed marks an outgoing message the server refused
	Failed bool
}

// ChatItem is an entry of the room list.
type ChatItem struct {
	Room   domain.RoomID
	Name   string
	Active bool
}

// DefaultChats are the rooms listed when none are configured.
func DefaultChats() []ChatItem {
	return []ChatItem{
		{Room: 1, Name: "general"},
		{Room: 2, Name: "random"},
		{Room: 3, Name: "dev"},
	}
}

// Sender delivers frames to the server. A nil Sender means offline mode.
type Sender interface {
	Send(frame ws.ClientFrame) error
}

type (
	frameMsg        ws.ServerFrame
	disconnectedMsg struct{}
	sendFailedMsg   struct{ err error }
)

const listWidth = 20

// DefaultMaxLength matches the server's default MAX_CONTENT_LENGTH.
const DefaultMaxLength = 2000

type bubbleRef struct {
	room  domain.RoomID
	index int
}

type Model struct {
	chats    []ChatItem
	header   string
	bubbles  map[domain.RoomID][]Bubble
	input    textinput.Model
	viewport viewport.Model
	sender   Sender
	incoming <-chan ws.ServerFrame
	status   string
	// nicknameNeeded is set while the server waits for a nickname
	nicknameNeeded bool
	// pending is the last outgoing message not yet refused by the server
	pending        *bubbleRef
	now            func() time.Time
	width, height  int
}

func NewModel(chats []ChatItem, sender Sender, incoming <-chan ws.ServerFrame) Model {
	if len(chats) == 0 {
		chats = DefaultChats()
	}
	chats = append([]ChatItem(nil), chats...)

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = DefaultMaxLength
	input.Focus()

	m := Model{
		chats:    chats,
		bubbles:  make(map[domain.RoomID][]Bubble),
		input:    input,
		viewport: viewport.New(60, 15),
		sender:   sender,
		incoming: incoming,
		status:   "offline",
		now:      time.Now,
	}
	if sender != nil {
		m.status = "connected"
	}
	return m.SelectChat(0)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForFrame())
}

func (m Model) waitForFrame() tea.Cmd {
	if m.incoming == nil {
		return nil
	}
	incoming := m.incoming
	return func() tea.Msg {
		frame, ok := <-incoming
		if !ok {
			return disconnectedMsg{}
		}
		return frameMsg(frame)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.Send()
		case tea.KeyTab, tea.KeyDown:
			return m.selectAndJoin((m.activeIndex() + 1) % len(m.chats))
		case tea.KeyShiftTab, tea.KeyUp:
			return m.selectAndJoin((m.activeIndex() + len(m.chats) - 1) % len(m.chats))
		}
	case frameMsg:
		m = m.receive(ws.ServerFrame(msg))
		return m, m.waitForFrame()
	case disconnectedMsg:
		m.sender = nil
		m.status = "disconnected"
		return m, nil
	case sendFailedMsg:
		m.status = "send failed: " + msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Send appends the trimmed input as an outgoing bubble, clears the input and
// scrolls to the bottom. Blank input does nothing.
func (m Model) Send() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	if m.nicknameNeeded {
		return m, m.send(ws.ClientFrame{Type: ws.FrameNick, Text: text})
	}

	room := m.ActiveRoom()
	m.bubbles[room] = append(m.bubbles[room], Bubble{
		Direction: Outgoing,
		Text:      text,
		Time:      domain.LocalClock(m.now()),
	})
	if m.sender != nil {
		m.pending = &bubbleRef{room: room, index: len(m.bubbles[room]) - 1}
	}
	m.refresh()
	return m, m.send(ws.ClientFrame{Type: ws.FrameMessage, Room: int(room), Text: text})
}

func (m Model) send(frame ws.ClientFrame) tea.Cmd {
	if m.sender == nil {
		return nil
	}
	sender := m.sender
	return func() tea.Msg {
		if err := sender.Send(frame); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

// SelectChat makes the i-th entry the only active one and copies its name into the header.
func (m Model) SelectChat(i int) Model {
	if i < 0 || i >= len(m.chats) {
		return m
	}
	m.chats = append([]ChatItem(nil), m.chats...)
	for j := range m.chats {
		m.chats[j].Active = j == i
	}
	m.header = m.chats[i].Name
	m.refresh()
	return m
}

// WithMaxLength caps the input, in runes, to what the server accepts.
func (m Model) WithMaxLength(n int) Model {
	if n > 0 {
		m.input.CharLimit = n
	}
	return m
}

func (m Model) selectAndJoin(i int) (Model, tea.Cmd) {
	m = m.SelectChat(i)
	m.pending = nil
	if m.nicknameNeeded {
		return m, nil
	}
	return m, m.send(ws.ClientFrame{Type: ws.FrameJoin, Room: int(m.ActiveRoom())})
}

func (m Model) receive(frame ws.ServerFrame) Model {
	switch frame.Type {
	case ws.FramePrompt:
		m.nicknameNeeded = true
		m.status = strings.TrimSpace(frame.Text)
	case ws.FrameWelcome:
		m.nicknameNeeded = false
		m.status = frame.Text
	case ws.FrameError:
		m.status = "error: " + frame.Text
		if ref := m.pending; ref != nil && ref.index < len(m.bubbles[ref.room]) {
			m.bubbles[ref.room][ref.index].Failed = true
			m.pending = nil
			m.refresh()
		}
	case ws.FrameSystem:
		room := roomOf(frame.Room)
		m.bubbles[room] = append(m.bubbles[room], Bubble{Direction: System, Text: frame.Text})
	case ws.FrameMessage:
		room := roomOf(frame.Room)
		m.bubbles[room] = append(m.bubbles[room], Bubble{
			Direction: Incoming,
			Author:    frame.Author,
			Text:      frame.Text,
			Time:      clockOf(frame.At, frame.Time),
		})
	case ws.FrameHistory:
		room := roomOf(frame.Room)
		if len(m.bubbles[room]) > 0 {
			break
		}
		for _, v := range frame.Messages {
			m.bubbles[room] = append(m.bubbles[room], Bubble{
				Direction: Incoming, Author: v.Author, Text: v.Text, Time: clockOf(&v.At, v.Time),
			})
		}
	}
	m.refresh()
	return m
}

func roomOf(room int) domain.RoomID {
	if room == 0 {
		return domain.DefaultRoom
	}
	return domain.RoomID(room)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = max(width-listWidth-4, 10)
	// header, input and status lines
	m.viewport.Height = max(height-6, 3)
	m.input.Width = m.viewport.Width - 3
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderBubbles(m.bubbles[m.ActiveRoom()], m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) activeIndex() int {
	for i, c := range m.chats {
		if c.Active {
			return i
		}
	}
	return 0
}

func (m Model) ActiveRoom() domain.RoomID {
	return m.chats[m.activeIndex()].Room
}

func (m Model) Header() string { return m.header }

func (m Model) Chats() []ChatItem { return append([]ChatItem(nil), m.chats...) }

// Messages lists the bubbles of the active room.
func (m Model) Messages() []Bubble {
	return append([]Bubble(nil), m.bubbles[m.ActiveRoom()]...)
}

func (m Model) Input() string { return m.input.Value() }

func (m Model) SetInput(value string) Model {
	m.input.SetValue(value)
	return m
}

func (m Model) Status() string { return m.status }

func (m Model) AtBottom() bool { return m.viewport.AtBottom() }

func (b Bubble) String() string {
	switch b.Direction {
	case Outgoing:
		if b.Failed {
			return fmt.Sprintf("%s  %s  (not delivered)", b.Text, b.Time)
		}
		return fmt.Sprintf("%s  %s", b.Text, b.Time)
	case System:
		return b.Text
	default:
		return fmt.Sprintf("%s: %s  %s", b.Author, b.Text, b.Time)
	}
}

// clockOf prefers the UTC timestamp rendered in this terminal's zone over the server's label.
func clockOf(at *time.Time, label string) string {
	if at == nil || at.IsZero() {
		return label
	}
	return domain.LocalClock(*at)
}
