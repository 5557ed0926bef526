package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/reconcile"
)

type auditState int

const (
	auditStateRunning auditState = iota
	auditStateBrowse
	auditStatePath
)

const auditTimeout = 2 * time.Minute

type AuditModel struct {
	CommonModel
	auditor *reconcile.Auditor

	state   auditState
	spinner spinner.Model
	table   table.Model
	reports []*reconcile.Report
	detail  bool
	form    *huh.Form
	path    *string
	err     error
	status  string
}

func NewAuditModel(auditor *reconcile.Auditor) AuditModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AuditModel{
		auditor: auditor,
		spinner: s,
		path:    new(fmt.Sprintf("audit-%s.xlsx", time.Now().Format("20060102"))),
		table: newTable([]table.Column{
			{Title: "Affiliate", Width: 20},
			{Title: "Expected", Width: 16},
			{Title: "Recorded", Width: 16},
			{Title: "Wallet", Width: 16},
			{Title: "Issues", Width: 7},
			{Title: "Status", Width: 12},
		}),
	}
}

func (m AuditModel) Title() string { return "Audit" }

func (m AuditModel) ShortHelp() string {
	switch m.state {
	case auditStateRunning:
		return "Auditing..."
	case auditStatePath:
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: details | x: export xlsx | r: rerun"
}

func (m AuditModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runCmd())
}

func (m AuditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case auditResultMsg:
		m.state = auditStateBrowse
		m.reports = msg.reports
		m.err = msg.err
		m.refreshTable()

		return m, nil

	case auditExportMsg:
		m.status = "Saved " + msg.path

		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Export failed: %v", msg.err))
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case auditStateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case auditStatePath:
		return m.updatePath(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}

			return m, Back
		case "enter":
			m.detail = !m.detail
			return m, nil
		case "r":
			m.state = auditStateRunning
			m.status = ""

			return m, tea.Batch(m.spinner.Tick, m.runCmd())
		case "x":
			m.form = huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Key("path").
						Title("Workbook Path").
						Placeholder("audit.xlsx").
						Value(m.path),
				),
			).WithWidth(50).WithShowHelp(false)
			m.state = auditStatePath
			m.table.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AuditModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = auditStateBrowse
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

	m.state = auditStateBrowse
	m.form = nil
	m.table.Focus()
	m.status = "Saving..."

	return m, m.exportCmd(*m.path)
}

func (m AuditModel) View() string {
	switch m.state {
	case auditStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Auditing affiliate ledgers...", m.spinner.View()),
		)
	case auditStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	unbalanced := 0
	for _, r := range m.reports {
		if !r.Balanced() {
			unbalanced++
		}
	}

	header := fmt.Sprintf("%d affiliates audited | %s out of balance",
		len(m.reports), activeStyle(fmt.Sprint(unbalanced)))

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}
	if m.err != nil {
		parts = append(parts, errorStyle(fmt.Sprintf("Some audits failed: %v", m.err)))
	}

	parts = append(parts, boxed(m.table.View()), lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.detail {
		if r := m.selected(); r != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(56).
				Render(reportDetail(r))

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func reportDetail(r *reconcile.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", r.AffiliateRef)

	if r.Balanced() {
		b.WriteString("Ledger is balanced.")
		return b.String()
	}

	if len(r.Missing) > 0 {
		b.WriteString("Missing conversions:\n")
		for _, s := range r.Missing {
			fmt.Fprintf(&b, "  %s  %s\n", s.SaleRef, money.FormatRupiah(s.Expected))
		}
	}

	if len(r.Orphaned) > 0 {
		b.WriteString("Orphaned conversions:\n")
		for _, o := range r.Orphaned {
			fmt.Fprintf(&b, "  %s  %s\n", o.SaleRef, money.FormatRupiah(o.Amount))
		}
	}

	if len(r.Mismatched) > 0 {
		b.WriteString("Amount mismatches:\n")
		for _, x := range r.Mismatched {
			fmt.Fprintf(&b, "  %s  %s != %s\n", x.SaleRef, money.FormatRupiah(x.Recorded), money.FormatRupiah(x.Expected))
		}
	}

	if len(r.Unpriced) > 0 {
		b.WriteString("Unpriced sales:\n")
		for _, u := range r.Unpriced {
			fmt.Fprintf(&b, "  %s  %s\n", u.SaleRef, u.Reason)
		}
	}

	if r.ActualTotal != r.WalletTotal {
		fmt.Fprintf(&b, "Wallet %s differs from recorded %s\n",
			money.FormatRupiah(r.WalletTotal), money.FormatRupiah(r.ActualTotal))
	}

	return b.String()
}

func (m AuditModel) selected() *reconcile.Report {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.reports) {
		return nil
	}

	return m.reports[idx]
}

func (m *AuditModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.reports))
	for _, r := range m.reports {
		status := "balanced"
		if !r.Balanced() {
			status = "DISCREPANCY"
		}

		issues := len(r.Missing) + len(r.Orphaned) + len(r.Mismatched) + len(r.Unpriced)

		rows = append(rows, table.Row{
			r.AffiliateRef,
			money.FormatRupiah(r.ExpectedTotal),
			money.FormatRupiah(r.ActualTotal),
			money.FormatRupiah(r.WalletTotal),
			fmt.Sprint(issues),
			status,
		})
	}

	m.table.SetRows(rows)
}

type auditResultMsg struct {
	reports []*reconcile.Report
	err     error
}

func (m AuditModel) runCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		reports, err := m.auditor.AuditAll(ctx)

		return auditResultMsg{reports: reports, err: err}
	}
}

type auditExportMsg struct {
	path string
	err  error
}

func (m AuditModel) exportCmd(path string) tea.Cmd {
	reports := m.reports

	return func() tea.Msg {
		data, err := export.Audit(reports)
		if err != nil {
			return auditExportMsg{err: err}
		}

		return auditExportMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}
