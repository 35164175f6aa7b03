package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chemsolver/internal/catalog"
	"chemsolver/internal/service"
	"chemsolver/pkg/electron"
	"chemsolver/pkg/leveling"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var asJSON bool

	root := &cobra.Command{
		Use:           "chemctl",
		Short:         "Chemistry toolkit: electron shells, element lookup, XP levels and quizzes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newShellsCmd(&asJSON),
		newElementCmd(&asJSON),
		newLevelCmd(&asJSON),
		newQuizCmd(),
	)
	return root
}

func newShellsCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "shells <electrons>",
		Short: "Distribute electrons over the K..Q shells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := electron.Parse(args[0])
			if err != nil {
				return err
			}
			report, err := service.NewElementService(catalog.MustLoad()).ShellReport(n)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "electrons: %d\n", report.ElectronCount)
			fmt.Fprintf(out, "shells:    %s\n", orDash(report.ShellString))
			fmt.Fprintf(out, "subshells: %s\n", orDash(report.Notation))
			if report.Saturated {
				fmt.Fprintf(out, "note: only the first %d electrons fit in the orbital table\n", electron.MaxElectrons)
			}
			return nil
		},
	}
}

func newElementCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "element <number|symbol>",
		Short: "Show an element's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := service.NewElementService(catalog.MustLoad()).GetElement(args[0])
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), d)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d %s (%s)\n", d.Number, d.Name, d.Symbol)
			fmt.Fprintf(out, "category:    %s\n", d.Category)
			fmt.Fprintf(out, "atomic mass: %s\n", strconv.FormatFloat(d.AtomicMass, 'f', -1, 64))
			fmt.Fprintf(out, "phase:       %s\n", d.Phase)
			fmt.Fprintf(out, "shells:      %s\n", d.ShellString)
			fmt.Fprintf(out, "subshells:   %s\n", d.Notation)
			fmt.Fprintf(out, "particles:   p=%d e=%d n=%d\n", d.Particles.Protons, d.Particles.Electrons, d.Particles.Neutrons)
			if d.Radioactive {
				fmt.Fprintln(out, "radioactive: yes")
			}
			return nil
		},
	}
}

func newLevelCmd(asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "level <xp>",
		Short: "Convert total XP to level and rank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("xp must be an integer: %w", err)
			}
			info := leveling.FromXP(xp)
			rank := leveling.RankFor(info.Level)
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"level": info, "rank": rank})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "level %d (%s): %d/%d XP, %.0f%%\n",
				info.Level, rank.Title, info.CurrentLevelXP, info.NextLevelXP, info.Progress*100)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
