package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/registry"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <manifest.toml>",
		Short: "Validate a manifest and print its interfaces and classes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := registry.LoadManifest(args[0])
			if err != nil {
				return err
			}
			descs, err := m.Descriptors()
			if err != nil {
				return err
			}

			fmt.Println(headingStyle.Render("Interfaces"))
			for _, mi := range m.Interfaces {
				d := descs[mi.Name]
				fmt.Printf("  %s %s\n", nameStyle.Render(d.Name), idStyle.Render(d.ID.String()))
				if len(d.Ancestors) > 0 {
					fmt.Printf("    %s\n", dimStyle.Render("chain: "+chainString(m, d)))
				}
			}

			fmt.Println()
			fmt.Println(headingStyle.Render("Classes"))
			for _, mc := range m.Classes {
				fmt.Printf("  %s\n", nameStyle.Render(mc.Name))
				if len(mc.Implements) > 0 {
					fmt.Printf("    implements %s\n", strings.Join(mc.Implements, ", "))
				}
				for _, ag := range mc.Aggregates {
					line := fmt.Sprintf("aggregates %s as %q", ag.Class, ag.Field)
					if len(ag.Forwards) > 0 {
						line += " forwarding " + strings.Join(ag.Forwards, ", ")
					}
					fmt.Printf("    %s\n", dimStyle.Render(line))
				}
			}
			return nil
		},
	}
}

func chainString(m *registry.Manifest, d *comrt.Descriptor) string {
	byID := make(map[comrt.InterfaceID]string, len(m.Interfaces))
	for _, mi := range m.Interfaces {
		if id, err := comrt.ParseID(mi.ID); err == nil {
			byID[id] = mi.Name
		}
	}
	parts := make([]string, 0, len(d.Ancestors))
	for _, a := range d.Ancestors {
		if name, ok := byID[a]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, " -> ")
}
