package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/modes"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List analysis modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		registry, err := modes.Load(cfg.ModesFile)
		if err != nil {
			fail(err)
			return nil
		}
		fmt.Fprintln(os.Stdout, modesTable(registry.List()))
		return nil
	},
}

func modesTable(defs []modes.Definition) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODE", "INPUT", "NEEDS", "DESCRIPTION")
	for _, d := range defs {
		id := d.ID
		if id == modes.DefaultID {
			id += " (default)"
		}
		t.Row(id, string(d.Input), needs(d), d.Description)
	}
	return t.String()
}

func needs(d modes.Definition) string {
	var n []string
	if d.RequiresQuestion {
		n = append(n, "question")
	}
	if d.RequiresCriteria {
		n = append(n, "criteria")
	}
	if len(n) == 0 {
		return "-"
	}
	return strings.Join(n, ", ")
}
