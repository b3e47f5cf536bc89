package main

import (
	"github.com/spf13/cobra"

	"github.com/choiday/boost-container-pretty-printer/printers"
)

func init() {
	rootCmd.AddCommand(newPrintersCmd())
}

func newPrintersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List registered subprinters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrinters()
		},
	}
}

func runPrinters() error {
	reg, err := printers.BuildRegistry()
	if err != nil {
		return err
	}

	if jsonOut {
		type entry struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
		}
		out := struct {
			Registry    string  `json:"registry"`
			Subprinters []entry `json:"subprinters"`
		}{Registry: reg.Name()}
		for _, sp := range reg.Subprinters() {
			out.Subprinters = append(out.Subprinters, entry{sp.Name, sp.Enabled})
		}
		return printJSON(out)
	}

	printInfo("%s:\n", reg.Name())
	for _, sp := range reg.Subprinters() {
		state := "enabled"
		if !sp.Enabled {
			state = "disabled"
		}
		printInfo("  %-60s %s\n", sp.Name, state)
	}
	return nil
}
