package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/wallet"
)

type WalletsModel struct {
	CommonModel
	wallets *wallet.Service

	table    table.Model
	balances []*wallet.Balance
	loading  bool
	err      error
	status   string
}

func NewWalletsModel(wallets *wallet.Service) WalletsModel {
	return WalletsModel{
		wallets: wallets,
		loading: true,
		table: newTable([]table.Column{
			{Title: "Affiliate", Width: 20},
			{Title: "Pending", Width: 16},
			{Title: "Paid", Width: 16},
			{Title: "Total", Width: 16},
			{Title: "Conv.", Width: 6},
			{Title: "Recomputed", Width: 12},
		}),
	}
}

func (m WalletsModel) Title() string { return "Wallets" }

func (m WalletsModel) ShortHelp() string {
	return "Esc: back | Enter: conversions | c: recompute | a: recompute all | r: refresh"
}

func (m WalletsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m WalletsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadWalletsMsg:
		m.loading = false
		m.err = msg.err
		m.balances = msg.balances
		m.refreshTable()

		return m, nil

	case recomputeMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Recompute failed: %v", msg.err))
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "c":
			if b := m.selected(); b != nil {
				return m, m.recomputeCmd(b.AffiliateRef)
			}
		case "a":
			m.status = "Recomputing all wallets..."
			return m, m.recomputeAllCmd()
		case "enter":
			if b := m.selected(); b != nil {
				ref := b.AffiliateRef
				return m, func() tea.Msg { return OpenConversionsMsg{AffiliateRef: ref} }
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m WalletsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading wallets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var pending, paid int64
	for _, b := range m.balances {
		pending += b.Pending
		paid += b.Paid
	}

	header := fmt.Sprintf("%d wallets | pending %s | paid %s",
		len(m.balances),
		activeStyle(money.FormatRupiah(pending)),
		activeStyle(money.FormatRupiah(paid)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m WalletsModel) selected() *wallet.Balance {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.balances) {
		return nil
	}

	return m.balances[idx]
}

func (m *WalletsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.balances))
	for _, b := range m.balances {
		rows = append(rows, table.Row{
			b.AffiliateRef,
			money.FormatRupiah(b.Pending),
			money.FormatRupiah(b.Paid),
			money.FormatRupiah(b.Total),
			fmt.Sprint(b.Conversions),
			FormatDate(b.RecomputedAt),
		})
	}

	m.table.SetRows(rows)
}

type loadWalletsMsg struct {
	balances []*wallet.Balance
	err      error
}

func (m WalletsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.wallets.List(ctx)

		return loadWalletsMsg{balances: balances, err: err}
	}
}

type recomputeMsg struct {
	status string
	err    error
}

func (m WalletsModel) recomputeCmd(ref string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		b, err := m.wallets.Recompute(ctx, ref)
		if err != nil {
			return recomputeMsg{err: err}
		}

		return recomputeMsg{status: fmt.Sprintf("%s recomputed: %s pending", ref, money.FormatRupiah(b.Pending))}
	}
}

func (m WalletsModel) recomputeAllCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.wallets.RecomputeAll(context.Background())

		return recomputeMsg{status: fmt.Sprintf("Recomputed %d wallets", n), err: err}
	}
}
