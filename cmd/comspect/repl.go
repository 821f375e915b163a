package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/object"
	"github.com/lemonbalms/comrt/registry"
)

var (
	selStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively create instances and exercise query/add-ref/release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := demoRegistry()
			p := tea.NewProgram(newExplorerModel(reg), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type explorerState int

const (
	stateSelectClass explorerState = iota
	stateConsole
	stateQueryID
)

type explorerModel struct {
	reg     *registry.Registry
	classes []string
	ifaces  []*comrt.Descriptor

	state    explorerState
	selected int
	cursor   int
	idInput  textinput.Model

	core *object.Core
	held []*object.DispatchTable
	log  []string
}

func newExplorerModel(reg *registry.Registry) *explorerModel {
	ifaces := reg.Interfaces()
	// The identity interface is always queryable.
	ifaces = append([]*comrt.Descriptor{comrt.NewDescriptor("IUnknown", comrt.IdentityID)}, ifaces...)

	ti := textinput.New()
	ti.Placeholder = "00000000-0000-0000-0000-000000000000"
	ti.CharLimit = 36
	ti.Width = 40

	return &explorerModel{
		reg:     reg,
		classes: reg.Classes(),
		ifaces:  ifaces,
		idInput: ti,
	}
}

func (m *explorerModel) Init() tea.Cmd {
	return nil
}

func (m *explorerModel) note(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > 8 {
		m.log = m.log[len(m.log)-8:]
	}
}

func (m *explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateQueryID {
		switch key.String() {
		case "enter":
			raw := strings.TrimSpace(m.idInput.Value())
			if id, err := comrt.ParseID(raw); err != nil {
				m.note("query %s: %s", raw, errStyle.Render(err.Error()))
			} else {
				m.queryID(raw, id)
			}
			m.idInput.Reset()
			m.state = stateConsole
		case "esc":
			m.idInput.Reset()
			m.state = stateConsole
		case "ctrl+c":
			m.teardown()
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.idInput, cmd = m.idInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.teardown()
		return m, tea.Quit

	case "up", "k":
		if m.state == stateSelectClass && m.selected > 0 {
			m.selected--
		}
		if m.state == stateConsole && m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.state == stateSelectClass && m.selected < len(m.classes)-1 {
			m.selected++
		}
		if m.state == stateConsole && m.cursor < len(m.ifaces)-1 {
			m.cursor++
		}

	case "enter":
		switch m.state {
		case stateSelectClass:
			m.createInstance()
		case stateConsole:
			m.query(m.ifaces[m.cursor])
		}

	case "a":
		if m.state == stateConsole {
			n := m.core.PublicIdentity().AddRef()
			m.note("add ref -> count %d", n)
		}

	case "r":
		if m.state == stateConsole {
			m.release()
		}

	case "i":
		if m.state == stateConsole {
			m.state = stateQueryID
			return m, m.idInput.Focus()
		}

	case "d":
		if m.state == stateConsole && len(m.held) > 0 {
			ptr := m.held[len(m.held)-1]
			m.held = m.held[:len(m.held)-1]
			name := ptr.Descriptor().Name
			if n := ptr.Release(); n == 0 {
				m.note("dropped %s pointer -> count 0, instance destroyed", name)
				m.reset()
			} else {
				m.note("dropped %s pointer -> count %d", name, n)
			}
		}

	case "esc":
		if m.state == stateConsole {
			m.teardown()
		}
	}

	return m, nil
}

func (m *explorerModel) createInstance() {
	name := m.classes[m.selected]
	core, err := m.reg.Allocate(name, "repl", nil)
	if err != nil {
		m.note("allocate %s: %v", name, err)
		return
	}
	core.PublicIdentity().AddRef()
	m.core = core
	m.state = stateConsole
	m.cursor = 0
	m.note("created %s -> count 1", name)
}

func (m *explorerModel) query(d *comrt.Descriptor) {
	m.queryID(d.Name, d.ID)
}

func (m *explorerModel) queryID(name string, id comrt.InterfaceID) {
	ptr, err := m.core.PublicIdentity().QueryInterface(id)
	if err != nil {
		m.note("query %s: %s", name, errStyle.Render(err.Error()))
		return
	}
	m.held = append(m.held, ptr)
	m.note("query %s -> %s, count %d", name, okStyle.Render("ok"), m.core.RefCount())
}

func (m *explorerModel) release() {
	if n := m.core.PublicIdentity().Release(); n == 0 {
		m.note("release -> count 0, instance destroyed")
		m.reset()
	} else {
		m.note("release -> count %d", n)
	}
}

// teardown releases every reference the explorer still owns so the
// instance is destroyed cleanly.
func (m *explorerModel) teardown() {
	if m.core == nil {
		return
	}
	pub := m.core.PublicIdentity()
	for pub.Release() != 0 {
	}
	m.note("released remaining references, instance destroyed")
	m.reset()
}

func (m *explorerModel) reset() {
	m.core = nil
	m.held = nil
	m.state = stateSelectClass
	m.cursor = 0
}

func (m *explorerModel) View() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("comrt explorer"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class to instantiate:\n\n")
		for i, name := range m.classes {
			line := "  " + name
			if i == m.selected {
				line = selStyle.Render("> " + name)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("↑/↓ select • enter create • q quit"))

	case stateConsole:
		fmt.Fprintf(&b, "Instance of %s, count %d, %d held pointer(s)\n\n",
			nameStyle.Render(m.core.Name()), m.core.RefCount(), len(m.held))
		for i, d := range m.ifaces {
			line := "  " + d.Name + " " + idStyle.Render(d.ID.String())
			if i == m.cursor {
				line = selStyle.Render("> "+d.Name) + " " + idStyle.Render(d.ID.String())
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter query • i query by id • a add ref • r release • d drop pointer • esc destroy • q quit"))

	case stateQueryID:
		fmt.Fprintf(&b, "Instance of %s, count %d\n\n",
			nameStyle.Render(m.core.Name()), m.core.RefCount())
		b.WriteString("Query interface id:\n\n")
		b.WriteString("  " + m.idInput.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter query • esc cancel"))
	}

	if len(m.log) > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("events:"))
		b.WriteString("\n")
		for _, line := range m.log {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
