// Package tui implements the interactive calculator: facility input editing
// (beds, occupancy, zip, country, climate), baseline practice toggles,
// intervention toggles and sliders, and live baseline/current/savings
// figures, recomputed on every keypress through the engine's single
// recalculation pipeline.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/icugreen/icucarbon/internal/dataset"
	"github.com/icugreen/icucarbon/internal/engine"
	"github.com/icugreen/icucarbon/internal/equiv"
)

// Climate multiplier bounds for interactive editing. The engine clamps harder
// at the assumptions caps; these just keep the keystroke loop sane.
const (
	climateMin  = 0.1
	climateMax  = 3.0
	climateStep = 0.1
)

// keyMap defines the TUI key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Practice key.Binding
	PracInc  key.Binding
	PracDec  key.Binding
	BedsUp   key.Binding
	BedsDn   key.Binding
	OccUp    key.Binding
	OccDn    key.Binding
	Zip      key.Binding
	Country  key.Binding
	ClimUp   key.Binding
	ClimDn   key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Practice, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Inc, k.Dec},
		{k.Practice, k.PracInc, k.PracDec},
		{k.BedsUp, k.BedsDn, k.OccUp, k.OccDn},
		{k.Zip, k.Country, k.ClimUp, k.ClimDn},
		{k.Reset, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Inc:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		Dec:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Practice: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle practice")),
		PracInc:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "practice value +")),
		PracDec:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "practice value -")),
		BedsUp:   key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "more beds")),
		BedsDn:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "fewer beds")),
		OccUp:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "occupancy +5%")),
		OccDn:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "occupancy -5%")),
		Zip:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "edit zip")),
		Country:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle country")),
		ClimUp:   key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "climate +0.1")),
		ClimDn:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "climate -0.1")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	figureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	savingsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model is the Bubble Tea model for the interactive calculator.
type Model struct {
	calc *engine.Calculator
	ds   *dataset.Dataset

	snap     engine.Snapshot
	disabled map[string]bool

	cursor     int
	zipInput   textinput.Model
	editingZip bool
	keys       keyMap
	help       help.Model
}

// New builds the interactive model over a calculator. The first recompute
// happens immediately so the initial view shows real figures.
func New(calc *engine.Calculator, ds *dataset.Dataset) Model {
	zip := textinput.New()
	zip.Placeholder = "ZIP"
	zip.CharLimit = 5
	zip.Width = 7

	m := Model{
		calc:     calc,
		ds:       ds,
		zipInput: zip,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	m.snap = m.calc.Recalculate()
	m.disabled = make(map[string]bool)
	for _, id := range m.calc.DisabledInterventions() {
		m.disabled[id] = true
	}
}

// Init implements tea.Model.
func (Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editingZip {
		return m.updateZipEditing(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.ds.Catalog.Interventions)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggleCurrent()
	case key.Matches(keyMsg, m.keys.Inc):
		m.adjustCurrent(+1)
	case key.Matches(keyMsg, m.keys.Dec):
		m.adjustCurrent(-1)
	case key.Matches(keyMsg, m.keys.Practice):
		m.togglePractice()
	case key.Matches(keyMsg, m.keys.PracInc):
		m.adjustPractice(+1)
	case key.Matches(keyMsg, m.keys.PracDec):
		m.adjustPractice(-1)
	case key.Matches(keyMsg, m.keys.BedsUp):
		m.adjustBeds(+1)
	case key.Matches(keyMsg, m.keys.BedsDn):
		m.adjustBeds(-1)
	case key.Matches(keyMsg, m.keys.OccUp):
		m.adjustOccupancy(+0.05)
	case key.Matches(keyMsg, m.keys.OccDn):
		m.adjustOccupancy(-0.05)
	case key.Matches(keyMsg, m.keys.Zip):
		m.editingZip = true
		m.zipInput.SetValue(m.snap.Inputs.Zip)
		m.zipInput.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, m.keys.Country):
		m.cycleCountry()
	case key.Matches(keyMsg, m.keys.ClimUp):
		m.adjustClimate(+climateStep)
	case key.Matches(keyMsg, m.keys.ClimDn):
		m.adjustClimate(-climateStep)
	case key.Matches(keyMsg, m.keys.Reset):
		m.calc.Reset()
		m.cursor = 0
		m.refresh()
	}
	return m, nil
}

// updateZipEditing routes keystrokes to the zip text input until the edit is
// committed (enter) or abandoned (esc).
func (m Model) updateZipEditing(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.Type {
	case tea.KeyEnter:
		in := m.calc.Inputs()
		in.Zip = strings.TrimSpace(m.zipInput.Value())
		m.calc.SetInputs(in)
		m.editingZip = false
		m.zipInput.Blur()
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.editingZip = false
		m.zipInput.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.zipInput, cmd = m.zipInput.Update(keyMsg)
		return m, cmd
	}
}

func (m *Model) currentIntervention() *dataset.Intervention {
	if m.cursor < 0 || m.cursor >= len(m.ds.Catalog.Interventions) {
		return nil
	}
	return &m.ds.Catalog.Interventions[m.cursor]
}

func (m *Model) controlFor(id string) engine.Control {
	for _, p := range m.snap.PerIntervention {
		if p.ID == id {
			return engine.Control{Enabled: p.Enabled, Value: p.Value}
		}
	}
	return engine.Control{}
}

func (m *Model) toggleCurrent() {
	it := m.currentIntervention()
	if it == nil || m.disabled[it.ID] {
		return
	}
	ctrl := m.controlFor(it.ID)
	switch it.Type {
	case "binary":
		m.calc.SetControl(it.ID, engine.Control{Enabled: !ctrl.Enabled})
	case "slider":
		if ctrl.Value != 0 {
			m.calc.SetControl(it.ID, engine.Control{})
		} else {
			m.calc.SetControl(it.ID, engine.Control{Enabled: true, Value: it.Range.Max})
		}
	}
	m.refresh()
}

func (m *Model) adjustCurrent(direction float64) {
	it := m.currentIntervention()
	if it == nil || it.Type != "slider" || m.disabled[it.ID] {
		return
	}
	step := it.Range.Step
	if step == 0 {
		step = 1
	}
	v := m.controlFor(it.ID).Value + direction*step
	if v < it.Range.Min {
		v = it.Range.Min
	}
	if v > it.Range.Max {
		v = it.Range.Max
	}
	m.calc.SetControl(it.ID, engine.Control{Enabled: v != 0, Value: v})
	m.refresh()
}

// togglePractice flips the baseline practice paired with the cursor row.
// Marking a practice not in use both removes its baseline extra and locks out
// the paired intervention.
func (m *Model) togglePractice() {
	it := m.currentIntervention()
	if it == nil || it.BaselineControl == nil {
		return
	}
	p := m.snap.Practices[it.ID]
	m.calc.SetPractice(it.ID, engine.PracticeState{Enabled: !p.Enabled, Value: p.Value})
	m.refresh()
}

// adjustPractice moves a slider-type baseline practice by its declared step,
// clamped to the control's bounds. Only enabled practices respond.
func (m *Model) adjustPractice(direction float64) {
	it := m.currentIntervention()
	if it == nil || it.BaselineControl == nil || it.BaselineControl.Type != "slider" {
		return
	}
	p, ok := m.snap.Practices[it.ID]
	if !ok || !p.Enabled {
		return
	}

	bc := it.BaselineControl
	step := 1.0
	if bc.Step != nil && *bc.Step != 0 {
		step = *bc.Step
	}
	v := p.Value + direction*step
	if bc.Min != nil && v < *bc.Min {
		v = *bc.Min
	}
	if bc.Max != nil && v > *bc.Max {
		v = *bc.Max
	}
	if v < 0 {
		v = 0
	}
	m.calc.SetPractice(it.ID, engine.PracticeState{Enabled: true, Value: v})
	m.refresh()
}

func (m *Model) adjustBeds(delta int) {
	in := m.calc.Inputs()
	if in.Beds+delta >= 1 {
		in.Beds += delta
		m.calc.SetInputs(in)
		m.refresh()
	}
}

func (m *Model) adjustOccupancy(delta float64) {
	in := m.calc.Inputs()
	occ := in.Occupancy + delta
	if occ < 0.05 {
		occ = 0.05
	}
	if occ > 1 {
		occ = 1
	}
	in.Occupancy = occ
	m.calc.SetInputs(in)
	m.refresh()
}

// cycleCountry steps through the countries with a configured grid default, in
// sorted order.
func (m *Model) cycleCountry() {
	countries := make([]string, 0, len(m.ds.Assumptions.CountryGridDefaults))
	for c := range m.ds.Assumptions.CountryGridDefaults {
		countries = append(countries, c)
	}
	if len(countries) == 0 {
		return
	}
	sort.Strings(countries)

	in := m.calc.Inputs()
	next := countries[0]
	for i, c := range countries {
		if c == in.Country {
			next = countries[(i+1)%len(countries)]
			break
		}
	}
	in.Country = next
	m.calc.SetInputs(in)
	m.refresh()
}

func (m *Model) adjustClimate(delta float64) {
	in := m.calc.Inputs()
	c := in.ClimateMult + delta
	if c < climateMin {
		c = climateMin
	}
	if c > climateMax {
		c = climateMax
	}
	in.ClimateMult = c
	m.calc.SetInputs(in)
	m.refresh()
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	in := m.snap.Inputs
	b.WriteString(titleStyle.Render("ICU Carbon Calculator"))
	loc := in.Country
	if in.Zip != "" {
		loc += " " + in.Zip
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("   %d beds · %.0f%% occupancy · %s · climate ×%.1f",
		in.Beds, in.Occupancy*100, loc, in.ClimateMult)))
	b.WriteString("\n")
	if m.editingZip {
		b.WriteString("ZIP: " + m.zipInput.View() + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Baseline %s   Current %s   %s\n\n",
		figureStyle.Render(equiv.FormatTons(m.snap.Baseline.AnnualT)),
		figureStyle.Render(equiv.FormatTons(m.snap.Current.AnnualT)),
		savingsStyle.Render("Savings "+equiv.FormatTons(m.snap.SavingsT()))))

	deltas := make(map[string]engine.InterventionResult, len(m.snap.PerIntervention))
	for _, p := range m.snap.PerIntervention {
		deltas[p.ID] = p
	}

	lastGroup := ""
	for i := range m.ds.Catalog.Interventions {
		it := &m.ds.Catalog.Interventions[i]
		if it.Group != lastGroup {
			if g, ok := m.ds.Catalog.GroupByID(it.Group); ok {
				b.WriteString(groupStyle.Render(g.Icon+" "+g.Label) + "\n")
			}
			lastGroup = it.Group
		}

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		prac, hasPrac := m.snap.Practices[it.ID]
		line := renderEntry(it, deltas[it.ID], prac, hasPrac, m.disabled[it.ID])
		b.WriteString(prefix + line + "\n")
	}

	if eq := equiv.ForSavings(m.snap.SavingsT(), m.ds.Catalog.EquivalencyCoeffs); !eq.IsEmpty {
		b.WriteString("\n" + dimStyle.Render(eq.DisplayText) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func renderEntry(it *dataset.Intervention, res engine.InterventionResult, prac engine.PracticeState, hasPrac, locked bool) string {
	var state string
	switch {
	case locked:
		state = "not in use"
	case it.Type == "binary" && res.Enabled:
		state = "[x]"
	case it.Type == "binary":
		state = "[ ]"
	default:
		state = fmt.Sprintf("%g %s", res.Value, it.Range.Unit)
	}

	line := fmt.Sprintf("%-34s %-12s Δ %s t/y", it.Title, state, equiv.FormatFloat(res.DeltaT, 1))
	if locked {
		return disabledStyle.Render(line)
	}
	if hasPrac && prac.Enabled && it.BaselineControl != nil && it.BaselineControl.Type == "slider" {
		line += dimStyle.Render(fmt.Sprintf("  practice %g", prac.Value))
	}
	return line
}
