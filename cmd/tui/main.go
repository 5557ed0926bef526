package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/eksporyuk/commission/cmd/tui/internal/view"
	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/config"
	"github.com/eksporyuk/commission/internal/logging"
)

type model struct {
	app *app.App

	currentView View

	walletsView     view.WalletsModel
	conversionsView view.ConversionsModel
	auditView       view.AuditModel
}

type View int

const (
	ViewMenu        View = 0
	ViewWallets     View = 1
	ViewConversions View = 2
	ViewAudit       View = 3
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewWallets
				m.walletsView = view.NewWalletsModel(m.app.Wallets)

				return m, m.walletsView.Init()
			case "2":
				m.currentView = ViewAudit
				m.auditView = view.NewAuditModel(m.app.Auditor)

				return m, m.auditView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.OpenConversionsMsg:
		m.currentView = ViewConversions
		m.conversionsView = view.NewConversionsModel(m.app.Conversions, m.app.Payouts, msg.AffiliateRef)

		return m, m.conversionsView.Init()
	case view.BackMsg:
		if m.currentView == ViewConversions {
			m.currentView = ViewWallets
			return m, m.walletsView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewWallets:
		var newModel tea.Model
		newModel, cmd = m.walletsView.Update(msg)
		m.walletsView = newModel.(view.WalletsModel)
	case ViewConversions:
		var newModel tea.Model
		newModel, cmd = m.conversionsView.Update(msg)
		m.conversionsView = newModel.(view.ConversionsModel)
	case ViewAudit:
		var newModel tea.Model
		newModel, cmd = m.auditView.Update(msg)
		m.auditView = newModel.(view.AuditModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"EksporYuk Commission Ledger\n\n" +
				"1. Wallets and Payouts\n" +
				"2. Audit\n\n" +
				"q. Quit",
		)
	case ViewWallets:
		return m.walletsView.View()
	case ViewConversions:
		return m.conversionsView.View()
	case ViewAudit:
		return m.auditView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout belongs to the terminal UI
	logFile, err := os.OpenFile("commission-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logging.NewWriter(logFile, cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(log)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
