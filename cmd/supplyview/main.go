// Command supplyview is a terminal browser for a supplygen output
// directory, with a Tier-2 view that ranks shippers by battery-maker
// concentration.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-supplygen/pkg/analysis"
	"github.com/dd0wney/cluso-supplygen/pkg/config"
	"github.com/dd0wney/cluso-supplygen/pkg/synth"
	"github.com/dd0wney/cluso-supplygen/pkg/tables"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	alertBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	vendorsView
	ordersView
	tradeView
	tier2View
	viewCount
)

var tabNames = []string{"Overview", "Vendors", "Orders", "Trade", "Tier-2"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Jump     key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "jump to view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "inspect shipper"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Jump},
		{k.Up, k.Down, k.Enter},
		{k.Quit},
	}
}

type model struct {
	ds       *synth.Dataset
	manifest *tables.Manifest
	stats    []analysis.ShipperStat

	// Tier-2 drill-down for the selected shipper.
	selected string
	evidence []analysis.EvidenceRow
	exposure analysis.ExposureReport

	currentView view
	tables      map[view]table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(ds *synth.Dataset, manifest *tables.Manifest) model {
	m := model{
		ds:          ds,
		manifest:    manifest,
		stats:       analysis.ShipperConcentration(ds.TradeFlows, synth.BatteryMakers(ds.Vendors)),
		currentView: overviewView,
		help:        help.New(),
		keys:        keys,
	}

	vendorRows := make([]table.Row, len(ds.Vendors))
	for i, v := range ds.Vendors {
		vendorRows[i] = table.Row{v.ID, v.Name, v.CountryCode, v.City, fmt.Sprintf("%.2f", v.FinancialHealth)}
	}
	orderRows := make([]table.Row, len(ds.PurchaseOrders))
	for i, po := range ds.PurchaseOrders {
		orderRows[i] = table.Row{po.ID, po.VendorID, po.MaterialID, fmt.Sprint(po.Quantity), string(po.Status)}
	}
	tradeRows := make([]table.Row, len(ds.TradeFlows))
	for i, t := range ds.TradeFlows {
		tradeRows[i] = table.Row{t.ID, t.ShipperName, t.ConsigneeName, t.HSCode, fmt.Sprint(t.WeightKg)}
	}
	shipperRows := make([]table.Row, len(m.stats))
	for i, st := range m.stats {
		shipperRows[i] = table.Row{
			st.Shipper, st.Country, fmt.Sprint(st.Shipments),
			percent(st.TradeShare), percent(st.BatteryShare), fmt.Sprint(st.Consignees),
		}
	}

	m.tables = map[view]table.Model{
		vendorsView: newTable([]table.Column{
			{Title: "Vendor", Width: 8},
			{Title: "Name", Width: 30},
			{Title: "Country", Width: 8},
			{Title: "City", Width: 16},
			{Title: "Health", Width: 7},
		}, vendorRows),
		ordersView: newTable([]table.Column{
			{Title: "PO", Width: 12},
			{Title: "Vendor", Width: 8},
			{Title: "Material", Width: 8},
			{Title: "Qty", Width: 8},
			{Title: "Status", Width: 8},
		}, orderRows),
		tradeView: newTable([]table.Column{
			{Title: "BOL", Width: 12},
			{Title: "Shipper", Width: 26},
			{Title: "Consignee", Width: 30},
			{Title: "HS", Width: 8},
			{Title: "Kg", Width: 7},
		}, tradeRows),
		tier2View: newTable([]table.Column{
			{Title: "Shipper", Width: 26},
			{Title: "Country", Width: 8},
			{Title: "Shipments", Width: 9},
			{Title: "Trade", Width: 7},
			{Title: "Battery", Width: 7},
			{Title: "Consignees", Width: 10},
		}, shipperRows),
	}

	if len(m.stats) > 0 {
		m.inspect(m.stats[0].Shipper)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount
			return m, nil

		case key.Matches(msg, m.keys.Jump):
			m.currentView = view(msg.String()[0] - '1')
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == tier2View {
				if row := m.tables[tier2View].SelectedRow(); row != nil {
					m.inspect(row[0])
				}
			}
			return m, nil
		}
	}

	// Update focused table
	t, ok := m.tables[m.currentView]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	t, cmd = t.Update(msg)
	m.tables[m.currentView] = t
	return m, cmd
}

// inspect loads trade evidence and BOM exposure for shipper.
func (m *model) inspect(shipper string) {
	m.selected = shipper
	m.evidence = analysis.TradeEvidence(m.ds.TradeFlows, shipper)
	m.exposure = analysis.Exposure(m.ds, shipper)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Supply Network Explorer"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case vendorsView:
		s.WriteString(m.renderTable("Tier-1 Vendors"))
	case ordersView:
		s.WriteString(m.renderTable("Purchase Orders"))
	case tradeView:
		s.WriteString(m.renderTable("Bills of Lading"))
	case tier2View:
		s.WriteString(m.renderTier2())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderOverview() string {
	counts := fmt.Sprintf(`Tables
━━━━━━━━━━━━━━━
Vendors:     %d
Materials:   %d
BOM edges:   %d
Orders:      %d
Trade:       %d
Regions:     %d`,
		len(m.ds.Vendors),
		len(m.ds.Materials),
		len(m.ds.BOM),
		len(m.ds.PurchaseOrders),
		len(m.ds.TradeFlows),
		len(m.ds.Regions),
	)

	run := "Run\n━━━━━━━━━━━━━━━\nno manifest"
	if m.manifest != nil {
		run = fmt.Sprintf("Run\n━━━━━━━━━━━━━━━\nID:     %s\nSeed:   %d\nAt:     %s\nSnappy: %v",
			m.manifest.RunID,
			m.manifest.Seed,
			m.manifest.GeneratedAt.Format("2006-01-02 15:04"),
			m.manifest.Compressed,
		)
	}

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(counts),
		statsBoxStyle.Render(run),
	)
	return contentStyle.Render(boxes)
}

func (m model) renderTable(title string) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")
	t := m.tables[m.currentView]
	s.WriteString(t.View())
	return contentStyle.Render(s.String())
}

func (m model) renderTier2() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Tier-2 Shipper Concentration"))
	s.WriteString("\n\n")
	t := m.tables[tier2View]
	s.WriteString(t.View())
	s.WriteString("\n\n")

	if m.selected == "" {
		s.WriteString("No trade records loaded")
		return contentStyle.Render(s.String())
	}

	var d strings.Builder
	fmt.Fprintf(&d, "%s\n", m.selected)
	fmt.Fprintf(&d, "Dependent vendors: %d  Materials: %d  Open POs: %d/%d\n",
		m.exposure.DependentCount(), len(m.exposure.Materials),
		m.exposure.OpenOrders, m.exposure.Orders)
	fmt.Fprintf(&d, "Order value at risk: $%.0f  Reaches finished good: %v\n",
		m.exposure.OrderValueUSD, m.exposure.ReachesFinishedGood())
	const maxEvidence = 5
	for i, e := range m.evidence {
		if i == maxEvidence {
			fmt.Fprintf(&d, "... and %d more consignee lanes\n", len(m.evidence)-maxEvidence)
			break
		}
		fmt.Fprintf(&d, "  → %-28s %s %3d shipments %8d kg\n", e.Consignee, e.HSCode, e.Shipments, e.TotalWeightKg)
	}
	s.WriteString(alertBoxStyle.Render(strings.TrimRight(d.String(), "\n")))
	return contentStyle.Render(s.String())
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// loadRun reads dir, preferring the manifest's compression setting over
// the flag when a manifest is present.
func loadRun(dir string, compress bool) (*synth.Dataset, *tables.Manifest, error) {
	manifest, err := tables.ReadManifest(dir)
	switch {
	case err == nil:
		compress = manifest.Compressed
	case errors.Is(err, os.ErrNotExist):
		manifest = nil
	default:
		return nil, nil, err
	}

	ds, err := tables.ReadDataset(dir, compress)
	if err != nil {
		return nil, nil, err
	}
	if manifest != nil {
		ds.Seed = manifest.Seed
	}
	return ds, manifest, nil
}

func main() {
	dir := flag.String("dir", config.DefaultOutputDir, "supplygen output directory")
	compress := flag.Bool("compress", false, "Read .csv.sz tables when no manifest is present")
	flag.Parse()

	ds, manifest, err := loadRun(*dir, *compress)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *dir, err)
	}

	p := tea.NewProgram(initialModel(ds, manifest), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
