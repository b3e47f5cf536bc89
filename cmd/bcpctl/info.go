package main

import (
	"github.com/spf13/cobra"

	"github.com/choiday/boost-container-pretty-printer/manifest"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <manifest>",
		Short: "Summarize a capture manifest's memory and roots",
		Long: `Loads a capture manifest and reports its memory segments, pointer
size, and declared root values without decoding anything.

Example:
  bcpctl info capture.json
  bcpctl info capture.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	cap, err := manifest.Load(path)
	if err != nil {
		return err
	}
	defer cap.Close()

	segs := cap.Target.Mem.Segments()

	if jsonOut {
		type segInfo struct {
			Addr uint64 `json:"addr"`
			Size int    `json:"size"`
		}
		type rootInfo struct {
			Name string `json:"name"`
			Type string `json:"type"`
			Addr uint64 `json:"addr"`
		}
		out := struct {
			PointerSize uint64     `json:"pointer_size"`
			Segments    []segInfo  `json:"segments"`
			Roots       []rootInfo `json:"roots"`
		}{PointerSize: cap.Target.Types.PointerSize()}
		for _, s := range segs {
			out.Segments = append(out.Segments, segInfo{s.Addr, len(s.Data)})
		}
		for _, r := range cap.Roots {
			out.Roots = append(out.Roots, rootInfo{r.Name, r.Value.Type().Name(), r.Value.Address()})
		}
		return printJSON(out)
	}

	printInfo("Capture: %s\n", path)
	printInfo("  Pointer size: %d\n", cap.Target.Types.PointerSize())
	printInfo("  Segments: %d\n", len(segs))
	for _, s := range segs {
		printInfo("    %#x  %d bytes\n", s.Addr, len(s.Data))
	}
	printInfo("  Roots: %d\n", len(cap.Roots))
	for _, r := range cap.Roots {
		printInfo("    %-20s %s at %#x\n", r.Name, r.Value.Type().Name(), r.Value.Address())
	}
	return nil
}
