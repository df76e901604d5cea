// Package tui implements the interactive workbench: three stacked panels
// (case text, question editor, answer editor) driven by the workflow
// controller, plus a plain line-mode fallback for dumb terminals.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/casectl/casectl/internal/workflow"
)

// Config carries display-only settings into the TUI.
type Config struct {
	Version  string
	Provider string
	Model    string
	OutDir   string
}

// ---------- messages from the LLM goroutine ----------

type analysisDoneMsg struct {
	source string
	text   string
	err    error
}

type questionDoneMsg struct {
	text string
	err  error
}

type answerDoneMsg struct {
	text string
	err  error
}

// ---------- panels ----------

type panel int

const (
	panelSource panel = iota
	panelQuestion
	panelAnswer
)

const statusBarHeight = 1
const hintBarHeight = 1

// Model is the bubbletea model managing the workbench state.
type Model struct {
	ctrl *workflow.Controller
	cfg  Config

	source   textarea.Model
	question textarea.Model
	answer   textarea.Model
	spinner  spinner.Model

	focus  panel
	busy   bool
	action string // label of the in-flight LLM call
	status string // transient info line
	errMsg string

	width  int
	height int

	quitting bool
}

// NewModel creates the initial workbench model.
func NewModel(ctrl *workflow.Controller, cfg Config) Model {
	newArea := func(placeholder string) textarea.Model {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.CharLimit = 0 // unlimited; verdicts are long
		ta.SetHeight(6)
		return ta
	}

	source := newArea("请在此粘贴原始判决文本、案件描述等...")
	source.Focus()
	question := newArea("题目将在此显示，可手动编辑...")
	answer := newArea("答案将在此显示，可手动编辑...")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctrl:     ctrl,
		cfg:      cfg,
		source:   source,
		question: question,
		answer:   answer,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// ---------- commands ----------
//
// The controller is single-threaded: the closures built here capture
// everything they need up front and only talk to the provider, so the
// Update/View loop keeps exclusive ownership of the session. Results
// come back as messages and are applied in Update.

func (m *Model) analyzeCmd() tea.Cmd {
	source := m.source.Value()
	call := m.ctrl.AnalyzeCall(source)
	return func() tea.Msg {
		out, err := call(context.Background())
		return analysisDoneMsg{source: source, text: out, err: err}
	}
}

func (m *Model) generateQuestionCmd() tea.Cmd {
	call := m.ctrl.QuestionCall()
	return func() tea.Msg {
		out, err := call(context.Background())
		return questionDoneMsg{text: out, err: err}
	}
}

func (m *Model) generateAnswerCmd() tea.Cmd {
	call := m.ctrl.AnswerCall()
	return func() tea.Msg {
		out, err := call(context.Background())
		return answerDoneMsg{text: out, err: err}
	}
}

// ---------- update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case analysisDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			break
		}
		if err := m.ctrl.ApplyAnalysis(msg.source, msg.text); err != nil {
			m.errMsg = err.Error()
			break
		}
		m.errMsg = ""
		if workflow.AnalysisPassed(msg.text) {
			m.status = "分析完成：检测通过（ctrl+g 生成题目）"
		} else {
			m.status = "分析完成：检测未通过（总分需≥6分；可重置后更换案件）"
		}

	case questionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			break
		}
		if err := m.ctrl.ApplyQuestion(msg.text); err != nil {
			m.errMsg = err.Error()
			break
		}
		m.errMsg = ""
		m.question.SetValue(msg.text)
		m.focus = panelQuestion
		m.syncFocus()
		if workflow.QuestionTooShort(msg.text) {
			m.status = "题目已生成，但内容过短，建议补充背景后再锁定"
		} else {
			m.status = "题目已生成，可编辑；ctrl+l 锁定，ctrl+g 重新生成"
		}

	case answerDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			break
		}
		if err := m.ctrl.ApplyAnswer(msg.text); err != nil {
			m.errMsg = err.Error()
			break
		}
		m.errMsg = ""
		m.answer.SetValue(msg.text)
		m.focus = panelAnswer
		m.syncFocus()
		m.status = "答案已生成，可编辑；ctrl+s 锁定并保存，ctrl+g 重新生成"

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	// One outstanding LLM call per session: ignore stage actions while busy.
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.focus = m.nextPanel(1)
		m.syncFocus()
		return m, nil
	case "shift+tab":
		m.focus = m.nextPanel(-1)
		m.syncFocus()
		return m, nil

	case "ctrl+g":
		return m.stageAction()

	case "ctrl+l":
		if err := m.pushEdits(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		if err := m.ctrl.LockQuestion(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "题目已锁定（ctrl+g 生成标准答案）"
		m.syncFocus()
		return m, nil

	case "ctrl+s":
		if err := m.pushEdits(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		st := m.ctrl.State()
		if st != workflow.StateAnswerDraft && st != workflow.StateAnswerLocked {
			m.errMsg = "尚无可保存的答案"
			return m, nil
		}
		// Local file write, no goroutine needed.
		path, err := m.ctrl.LockAndSave()
		if err != nil {
			m.errMsg = err.Error()
			m.status = "保存失败，状态已保留，可再次 ctrl+s 重试"
			return m, nil
		}
		m.errMsg = ""
		m.status = "已保存：" + path
		m.syncFocus()
		return m, nil

	case "ctrl+r":
		m.ctrl.Reset()
		m.source.Reset()
		m.question.Reset()
		m.answer.Reset()
		m.focus = panelSource
		m.errMsg = ""
		m.status = "已重置"
		m.syncFocus()
		return m, nil
	}

	// Route everything else to the focused, still-editable textarea.
	var cmd tea.Cmd
	switch m.focus {
	case panelSource:
		if m.ctrl.State() == workflow.StateEmpty {
			m.source, cmd = m.source.Update(msg)
		}
	case panelQuestion:
		if !m.ctrl.Session().QuestionLocked() {
			m.question, cmd = m.question.Update(msg)
		}
	case panelAnswer:
		if !m.ctrl.Session().AnswerLocked() {
			m.answer, cmd = m.answer.Update(msg)
		}
	}
	return m, cmd
}

// stageAction fires the LLM transition appropriate for the current state.
func (m Model) stageAction() (tea.Model, tea.Cmd) {
	if err := m.pushEdits(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	switch m.ctrl.State() {
	case workflow.StateEmpty:
		if strings.TrimSpace(m.source.Value()) == "" {
			m.errMsg = "请先输入原始案件文本"
			return m, nil
		}
		m.busy = true
		m.action = "正在分析案件"
		return m, m.analyzeCmd()

	case workflow.StateAnalyzed, workflow.StateQuestionDraft:
		m.busy = true
		m.action = "正在生成题目"
		return m, m.generateQuestionCmd()

	case workflow.StateQuestionLocked, workflow.StateAnswerDraft:
		m.busy = true
		m.action = "正在生成答案"
		return m, m.generateAnswerCmd()

	default:
		m.errMsg = "工作流已完成，ctrl+r 开始新的案件"
		return m, nil
	}
}

// pushEdits stores the editable textarea contents into the session so
// locks and saves operate on what the user sees.
func (m *Model) pushEdits() error {
	if m.ctrl.State() == workflow.StateQuestionDraft {
		if err := m.ctrl.EditQuestion(m.question.Value()); err != nil {
			return err
		}
	}
	if m.ctrl.State() == workflow.StateAnswerDraft {
		if err := m.ctrl.EditAnswer(m.answer.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) nextPanel(delta int) panel {
	p := int(m.focus) + delta
	if p < 0 {
		p = int(panelAnswer)
	}
	if p > int(panelAnswer) {
		p = int(panelSource)
	}
	return panel(p)
}

// syncFocus moves textarea focus to the focused panel, blurring locked
// panels entirely.
func (m *Model) syncFocus() {
	m.source.Blur()
	m.question.Blur()
	m.answer.Blur()
	switch m.focus {
	case panelSource:
		if m.ctrl.State() == workflow.StateEmpty {
			m.source.Focus()
		}
	case panelQuestion:
		if !m.ctrl.Session().QuestionLocked() {
			m.question.Focus()
		}
	case panelAnswer:
		if !m.ctrl.Session().AnswerLocked() {
			m.answer.Focus()
		}
	}
}

// layout resizes the panels to the window.
func (m *Model) layout() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.source.SetWidth(w)
	m.question.SetWidth(w)
	m.answer.SetWidth(w)

	// Panels share what is left after chrome: 3 titles, analysis block,
	// status and hint bars.
	avail := m.height - statusBarHeight - hintBarHeight - 10
	per := avail / 3
	if per < 3 {
		per = 3
	}
	if per > 12 {
		per = 12
	}
	m.source.SetHeight(per)
	m.question.SetHeight(per)
	m.answer.SetHeight(per)
}

// ---------- view ----------

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.statusBar())
	b.WriteString("\n")

	b.WriteString(m.panelView(panelSource, "1. 原始案件素材", m.source.View(), false))
	if a := m.ctrl.Session().Analysis(); a != "" {
		b.WriteString(m.analysisView(a))
	}
	b.WriteString(m.panelView(panelQuestion, "2. 题目构建", m.question.View(), m.ctrl.Session().QuestionLocked()))
	b.WriteString(m.panelView(panelAnswer, "3. 标准答案", m.answer.View(), m.ctrl.Session().AnswerLocked()))

	if m.busy {
		b.WriteString(fmt.Sprintf("\n%s %s...\n", m.spinner.View(), m.action))
	} else if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("错误: "+m.errMsg) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + hintStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.hintBar())
	return b.String()
}

func (m Model) statusBar() string {
	left := fmt.Sprintf("casectl %s • %s/%s • %s",
		m.cfg.Version, m.cfg.Provider, m.cfg.Model, m.ctrl.State())
	if m.ctrl.Saved() {
		left += " • " + savedStyle.Render("saved")
	}
	return statusBarStyle.Width(m.width).Render(left)
}

func (m Model) panelView(p panel, title, body string, locked bool) string {
	ts := titleStyle
	ps := panelStyle
	if m.focus == p {
		ts = titleFocusedStyle
		ps = panelFocusedStyle
	}
	header := ts.Render(title)
	if locked {
		header += "  " + lockedBadgeStyle.Render("🔒 已锁定")
	}
	return header + "\n" + ps.Render(body) + "\n"
}

// analysisView renders the screening verdict as markdown, with a
// pass/fail banner.
func (m Model) analysisView(analysis string) string {
	banner := failStyle.Render("⚠ 检测未通过（总分需≥6分）")
	if workflow.AnalysisPassed(analysis) {
		banner = passStyle.Render("✓ 检测通过")
	}

	body := renderMarkdown(analysis, m.width)
	block := lipgloss.JoinVertical(lipgloss.Left, banner, body)
	return panelStyle.Render(block) + "\n"
}

// renderMarkdown renders text with glamour, falling back to the raw
// string when the renderer is unavailable.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

func (m Model) hintBar() string {
	var hints []string
	switch m.ctrl.State() {
	case workflow.StateEmpty:
		hints = append(hints, "ctrl+g 分析案件")
	case workflow.StateAnalyzed:
		hints = append(hints, "ctrl+g 生成题目")
	case workflow.StateQuestionDraft:
		hints = append(hints, "ctrl+g 重新生成", "ctrl+l 锁定题目")
	case workflow.StateQuestionLocked:
		hints = append(hints, "ctrl+g 生成答案")
	case workflow.StateAnswerDraft:
		hints = append(hints, "ctrl+g 重新生成", "ctrl+s 锁定并保存")
	case workflow.StateAnswerLocked:
		if !m.ctrl.Saved() {
			hints = append(hints, "ctrl+s 重试保存")
		}
	}
	hints = append(hints, "tab 切换面板", "ctrl+r 重置", "esc 退出")
	return hintStyle.Render(strings.Join(hints, " • "))
}
