// Package tui is the terminal front-end. It drives the same Assistant as the
// HTTP surface for a single in-process session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/randomtoy/lifeassist-go/internal/app"
	"github.com/randomtoy/lifeassist-go/internal/domain"
)

type mode int

const (
	modeCredential mode = iota
	modeMain
	modeHistory
)

const (
	fieldScenario = iota
	fieldMood
	fieldZodiac
	fieldIssue
	fieldCount
)

// Assistant is the subset of app.Assistant the terminal front-end uses.
type Assistant interface {
	Locked(sess *domain.SessionState) bool
	SetCredential(sess *domain.SessionState, key string) error
	ClearHistory(sess *domain.SessionState)
	Generate(ctx context.Context, sess *domain.SessionState, req app.GenerateRequest, display app.Display) (app.GenerateResponse, error)
}

// fragmentMsg carries the reply accumulated so far.
type fragmentMsg struct{ text string }

// resultMsg is the last message of a generation.
type resultMsg struct {
	resp app.GenerateResponse
	err  error
}

type Model struct {
	svc     Assistant
	sess    *domain.SessionState
	catalog domain.Catalog
	stream  bool
	ctx     context.Context
	cancel  context.CancelFunc

	mode  mode
	focus int
	picks [fieldIssue]int

	issue      textinput.Model
	credential textinput.Model
	spinner    spinner.Model
	viewport   viewport.Model
	renderer   *glamour.TermRenderer
	styles     styles
	width      int
	height     int

	busy   bool
	active domain.RequestKind
	events <-chan tea.Msg
	output string
	notice string
	warn   bool

	historyCursor int
	// expanded holds user toggles; entries without one follow the rendered default.
	expanded map[string]bool
}

func NewModel(ctx context.Context, svc Assistant, sess *domain.SessionState, catalog domain.Catalog, stream bool) Model {
	ctx, cancel := context.WithCancel(ctx)

	issue := textinput.New()
	issue.Placeholder = "描述一下您的生活困扰..."
	issue.CharLimit = 300

	cred := textinput.New()
	cred.Placeholder = "sk-..."
	cred.EchoMode = textinput.EchoPassword
	cred.EchoCharacter = '•'
	cred.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		svc:        svc,
		sess:       sess,
		catalog:    catalog,
		stream:     stream,
		ctx:        ctx,
		cancel:     cancel,
		mode:       modeMain,
		issue:      issue,
		credential: cred,
		spinner:    sp,
		viewport:   viewport.New(76, 12),
		width:      80,
		height:     30,
		expanded:   make(map[string]bool),
	}
	m.applyTheme()

	if svc.Locked(sess) {
		m.mode = modeCredential
		m.credential.Focus()
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-m.chromeLines())
		m.applyTheme()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fragmentMsg:
		m.output = msg.text
		m.refresh()
		return m, waitForEvent(m.events)

	case resultMsg:
		m.finish(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		switch m.mode {
		case modeCredential:
			return m.updateCredential(msg)
		case modeHistory:
			return m.updateHistory(msg)
		default:
			return m.updateMain(msg)
		}
	}
	return m, nil
}

func (m Model) updateCredential(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if err := m.svc.SetCredential(m.sess, m.credential.Value()); err != nil {
			m.setNotice(err)
			return m, nil
		}
		m.credential.Reset()
		m.credential.Blur()
		m.notice = ""
		m.mode = modeMain
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.credential, cmd = m.credential.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == fieldIssue {
		switch key {
		case "enter":
			return m.run(domain.KindTip)
		case "esc":
			m.setFocus(fieldScenario)
			return m, nil
		}
		var cmd tea.Cmd
		m.issue, cmd = m.issue.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "left":
		m.cycle(-1)
	case "right":
		m.cycle(1)
	case "1", "2", "3", "4":
		return m.run(domain.Kinds[key[0]-'1'])
	case "h":
		m.mode = modeHistory
		m.historyCursor = 0
		m.refresh()
	case "c":
		m.clearHistory()
	case "t":
		m.toggleTheme()
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.sess.History.Len()

	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "esc", "h":
		m.mode = modeMain
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < n-1 {
			m.historyCursor++
		}
	case "enter", " ":
		m.toggleEntry()
	case "c":
		m.clearHistory()
	case "t":
		m.toggleTheme()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

// run starts one generation in the background. Fragments and the final
// result come back as messages through m.events.
func (m Model) run(kind domain.RequestKind) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	ch := make(chan tea.Msg, 16)
	m.events = ch
	m.busy = true
	m.active = kind
	m.output = ""
	m.notice = ""

	ctx, svc, sess := m.ctx, m.svc, m.sess
	req := app.GenerateRequest{Kind: kind, Selection: m.selection(), Stream: m.stream}

	go func() {
		defer close(ch)
		resp, err := svc.Generate(ctx, sess, req, func(_, acc string) error {
			select {
			case ch <- fragmentMsg{text: acc}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		select {
		case ch <- resultMsg{resp: resp, err: err}:
		case <-ctx.Done():
		}
	}()

	m.refresh()
	return m, tea.Batch(m.spinner.Tick, waitForEvent(ch))
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) finish(msg resultMsg) {
	m.busy = false
	m.events = nil

	if msg.err != nil {
		// Text already shown stays on screen next to the error.
		if msg.resp.Partial != "" {
			m.output = msg.resp.Partial
		}
		m.setNotice(msg.err)
		if errors.Is(msg.err, domain.ErrMissingCredential) {
			m.mode = modeCredential
			m.credential.Focus()
		}
		m.refresh()
		return
	}

	m.notice = ""
	m.output = msg.resp.Entry.Response
	m.expanded = make(map[string]bool)
	m.historyCursor = 0
	m.refresh()
}

func (m *Model) setNotice(err error) {
	m.notice = domain.UserMessage(err)
	m.warn = errors.Is(err, domain.ErrMissingInput)
}

func (m *Model) setFocus(field int) {
	m.focus = field
	if field == fieldIssue {
		m.issue.Focus()
	} else {
		m.issue.Blur()
	}
}

func (m *Model) cycle(delta int) {
	opts := m.options(m.focus)
	if len(opts) == 0 {
		return
	}
	m.picks[m.focus] = (m.picks[m.focus] + delta + len(opts)) % len(opts)
}

func (m Model) options(field int) []string {
	switch field {
	case fieldScenario:
		return m.catalog.Scenarios
	case fieldMood:
		return m.catalog.Moods
	case fieldZodiac:
		return m.catalog.Zodiac
	}
	return nil
}

func (m Model) picked(field int) string {
	opts := m.options(field)
	if len(opts) == 0 {
		return ""
	}
	return opts[m.picks[field]]
}

func (m Model) selection() domain.Selection {
	return domain.Selection{
		Scenario: m.picked(fieldScenario),
		Mood:     m.picked(fieldMood),
		Zodiac:   m.picked(fieldZodiac),
		Issue:    m.issue.Value(),
	}
}

func (m *Model) clearHistory() {
	m.svc.ClearHistory(m.sess)
	m.expanded = make(map[string]bool)
	m.historyCursor = 0
	m.refresh()
}

func (m *Model) toggleTheme() {
	m.sess.SetTheme(m.sess.CurrentTheme().Toggle())
	m.applyTheme()
	m.refresh()
}

func (m *Model) toggleEntry() {
	items := m.sess.History.Render()
	if m.historyCursor >= len(items) {
		return
	}
	it := items[m.historyCursor]
	m.expanded[it.ID] = !m.isExpanded(it)
}

func (m Model) isExpanded(it domain.HistoryItem) bool {
	if v, ok := m.expanded[it.ID]; ok {
		return v
	}
	return it.Expanded
}

func (m *Model) applyTheme() {
	theme := m.sess.CurrentTheme()
	m.styles = newStyles(theme)
	m.renderer = newMarkdownRenderer(theme, m.viewport.Width)
}

func newMarkdownRenderer(theme domain.Theme, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(max(20, width-2)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) markdown(src string) string {
	if m.renderer == nil {
		return src
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// refresh rebuilds the viewport content for the current mode.
func (m *Model) refresh() {
	switch {
	case m.mode == modeHistory:
		m.viewport.SetContent(m.renderHistory())
	case m.busy:
		m.viewport.SetContent(m.styles.value.Width(m.viewport.Width).Render(m.output))
		m.viewport.GotoBottom()
	case m.output != "":
		m.viewport.SetContent(m.markdown(m.output))
		m.viewport.GotoTop()
	default:
		m.viewport.SetContent(m.styles.dim.Render("选择场景、心情和星座，然后按 1-4 开始。"))
	}
}

func (m Model) renderHistory() string {
	items := m.sess.History.Render()
	if len(items) == 0 {
		return m.styles.dim.Render(domain.EmptyHistoryMessage)
	}

	var b strings.Builder
	for i, it := range items {
		open := m.isExpanded(it)
		marker := "▸"
		if open {
			marker = "▾"
		}
		style := m.styles.entry
		if i == m.historyCursor {
			style = m.styles.entryCur
		}
		b.WriteString(style.Render(marker+" "+it.Title) + "\n")
		if open {
			b.WriteString(m.styles.dim.Render("您的需求") + "\n")
			b.WriteString(m.styles.value.Render(it.Prompt) + "\n")
			b.WriteString(m.styles.dim.Render("AI 回复") + "\n")
			b.WriteString(m.markdown(it.Response) + "\n")
		}
	}
	return b.String()
}

// chromeLines is the number of rows the main screen uses outside the viewport.
func (m Model) chromeLines() int {
	return 14
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("AI 生活助手") + m.styles.dim.Render("  "+string(m.sess.CurrentTheme())) + "\n\n")

	switch m.mode {
	case modeCredential:
		b.WriteString("请输入 API 密钥：\n")
		b.WriteString(m.credential.View() + "\n\n")
		b.WriteString(m.renderNotice())
		b.WriteString(m.styles.help.Render("  enter: 保存  ctrl+c: 退出"))
		return b.String()

	case modeHistory:
		b.WriteString(m.styles.title.Render("历史记录") + "\n")
		b.WriteString(m.styles.box.Render(m.viewport.View()) + "\n")
		b.WriteString(m.styles.help.Render("  ↑/↓: 选择  enter: 展开/收起  c: 清空  t: 主题  esc: 返回  q: 退出"))
		return b.String()
	}

	labels := [fieldIssue]string{"生活场景", "当前心情", "星座"}
	for f := range fieldIssue {
		b.WriteString(m.renderField(f, labels[f], "◂ "+m.picked(f)+" ▸") + "\n")
	}
	b.WriteString(m.renderField(fieldIssue, "生活困扰", m.issue.View()) + "\n\n")

	actions := make([]string, len(domain.Kinds))
	for i, k := range domain.Kinds {
		actions[i] = fmt.Sprintf("[%d] %s", i+1, k.Label())
	}
	b.WriteString("  " + strings.Join(actions, "  ") + "\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " 正在生成" + m.active.Label() + "...\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.renderNotice())
	b.WriteString(m.styles.box.Render(m.viewport.View()) + "\n")
	b.WriteString(m.styles.help.Render("  ↑/↓: 切换项  ←/→: 选择  1-4: 生成  h: 历史  c: 清空  t: 主题  q: 退出"))
	return b.String()
}

func (m Model) renderField(field int, label, value string) string {
	style := m.styles.label
	if m.focus == field {
		style = m.styles.focused
	}
	return "  " + style.Render(label) + " " + m.styles.value.Render(value)
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return "\n"
	}
	if m.warn {
		return m.styles.warning.Render(m.notice) + "\n"
	}
	return m.styles.errText.Render(m.notice) + "\n"
}
