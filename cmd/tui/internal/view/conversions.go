package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/payout"
)

type conversionsState int

const (
	conversionsStateBrowse conversionsState = iota
	conversionsStateConfirm
)

// ConversionsModel lists one affiliate's conversions and settles a selected batch.
type ConversionsModel struct {
	CommonModel
	conversions *conversion.Service
	payouts     *payout.Service

	affiliateRef string
	state        conversionsState
	table        table.Model
	convs        []*conversion.Conversion
	picked       map[uuid.UUID]bool
	form         *huh.Form
	confirmed    *bool

	loading bool
	err     error
	status  string
}

func NewConversionsModel(conversions *conversion.Service, payouts *payout.Service, affiliateRef string) ConversionsModel {
	return ConversionsModel{
		conversions:  conversions,
		payouts:      payouts,
		affiliateRef: affiliateRef,
		picked:       make(map[uuid.UUID]bool),
		loading:      true,
		table: newTable([]table.Column{
			{Title: " ", Width: 3},
			{Title: "Date", Width: 12},
			{Title: "Sale", Width: 20},
			{Title: "Rule", Width: 14},
			{Title: "Amount", Width: 16},
			{Title: "Status", Width: 8},
		}),
	}
}

func (m ConversionsModel) Title() string { return "Conversions " + m.affiliateRef }

func (m ConversionsModel) ShortHelp() string {
	if m.state == conversionsStateConfirm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Space: select | p: settle selected | r: refresh"
}

func (m ConversionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ConversionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadConversionsMsg:
		m.loading = false
		m.err = msg.err
		m.convs = msg.convs
		m.refreshTable()

		return m, nil

	case settleMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Settlement failed: %v", msg.err))
			return m, m.loadCmd()
		}

		m.picked = make(map[uuid.UUID]bool)
		m.status = fmt.Sprintf("Payout %s settled %s", msg.receipt.ID, money.FormatRupiah(msg.receipt.Total))

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == conversionsStateConfirm {
		return m.updateConfirm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case " ":
			m.toggle()
			return m, nil
		case "p":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ConversionsModel) toggle() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.convs) {
		return
	}

	c := m.convs[idx]
	if c.PaidOut {
		m.status = "Already paid out"
		return
	}

	if m.picked[c.ID] {
		delete(m.picked, c.ID)
	} else {
		m.picked[c.ID] = true
	}

	m.status = ""
	m.refreshTable()
}

func (m ConversionsModel) selection() ([]uuid.UUID, int64) {
	var (
		ids   []uuid.UUID
		total int64
	)

	for _, c := range m.convs {
		if m.picked[c.ID] {
			ids = append(ids, c.ID)
			total += c.Amount
		}
	}

	return ids, total
}

func (m ConversionsModel) enterConfirm() (tea.Model, tea.Cmd) {
	ids, total := m.selection()
	if len(ids) == 0 {
		m.status = "Select at least one unpaid conversion"
		return m, nil
	}

	m.confirmed = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Settle %d conversions for %s?", len(ids), money.FormatRupiah(total))).
				Affirmative("Settle").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = conversionsStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ConversionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = conversionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = conversionsStateBrowse
	m.form = nil
	m.table.Focus()

	if !*m.confirmed {
		return m, nil
	}

	ids, _ := m.selection()
	m.status = "Settling..."

	return m, m.settleCmd(ids)
}

func (m ConversionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading conversions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	_, total := m.selection()
	header := fmt.Sprintf("%s | %d conversions | selected %s",
		activeStyle(m.affiliateRef), len(m.convs), activeStyle(money.FormatRupiah(total)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.state == conversionsStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ConversionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.convs))
	for _, c := range m.convs {
		mark := "[ ]"
		if m.picked[c.ID] {
			mark = "[x]"
		}

		status := "pending"
		if c.PaidOut {
			mark = " - "
			status = "paid"
		}

		rows = append(rows, table.Row{
			mark,
			FormatDate(c.CreatedAt),
			c.SaleRef,
			fmt.Sprintf("%s %s", c.RuleKind, c.RuleValue.String()),
			money.FormatRupiah(c.Amount),
			status,
		})
	}

	m.table.SetRows(rows)
}

type loadConversionsMsg struct {
	convs []*conversion.Conversion
	err   error
}

func (m ConversionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		convs, err := m.conversions.ListByAffiliate(ctx, m.affiliateRef)

		return loadConversionsMsg{convs: convs, err: err}
	}
}

type settleMsg struct {
	receipt *payout.Receipt
	err     error
}

func (m ConversionsModel) settleCmd(ids []uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		receipt, err := m.payouts.Settle(ctx, m.affiliateRef, ids)

		return settleMsg{receipt: receipt, err: err}
	}
}
