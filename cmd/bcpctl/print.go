package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/choiday/boost-container-pretty-printer/manifest"
	"github.com/choiday/boost-container-pretty-printer/printers"
	"github.com/choiday/boost-container-pretty-printer/render"
)

func init() {
	rootCmd.AddCommand(newPrintCmd())
}

func newPrintCmd() *cobra.Command {
	var (
		maxElements int
		maxDepth    int
		maxString   int
		addresses   bool
		disabled    []string
	)

	cmd := &cobra.Command{
		Use:   "print <manifest> [name...]",
		Short: "Format named values from a capture manifest",
		Long: `Loads a capture manifest and formats the root values it declares.
With no names, every root is printed; otherwise only the named roots.

Example:
  bcpctl print capture.json
  bcpctl print capture.json nums --max-elements 10
  bcpctl print capture.json --disable boost::container::list`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := render.DefaultOptions()
			opts.MaxElements = maxElements
			opts.MaxDepth = maxDepth
			opts.MaxStringBytes = maxString
			opts.ShowAddresses = addresses
			return runPrint(os.Stdout, args[0], args[1:], disabled, opts)
		},
	}
	cmd.Flags().IntVar(&maxElements, "max-elements", render.DefaultMaxElements,
		"Maximum container elements to print (0 = unlimited)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", render.DefaultMaxDepth,
		"Maximum nesting depth (0 = unlimited)")
	cmd.Flags().IntVar(&maxString, "max-string-bytes", 0,
		"Maximum string bytes to print (0 = unlimited)")
	cmd.Flags().BoolVar(&addresses, "addresses", false, "Show element addresses")
	cmd.Flags().StringArrayVar(&disabled, "disable", nil,
		"Disable a subprinter by name (repeatable)")
	return cmd
}

func runPrint(w io.Writer, path string, names, disabled []string, opts render.Options) error {
	cap, err := manifest.Load(path)
	if err != nil {
		return err
	}
	defer cap.Close()

	reg, err := printers.BuildRegistry()
	if err != nil {
		return err
	}
	if err := disableSubprinters(reg, disabled); err != nil {
		return err
	}

	roots := cap.Roots
	if len(names) > 0 {
		roots, err = selectRoots(cap.Roots, names)
		if err != nil {
			return err
		}
	}

	r := render.New(reg, w, opts)
	for _, root := range roots {
		if err := r.Render(root.Name, root.Value); err != nil {
			return fmt.Errorf("print %s: %w", root.Name, err)
		}
	}
	return nil
}

func disableSubprinters(reg *printers.Registry, names []string) error {
	for _, name := range names {
		found := false
		for _, sp := range reg.Subprinters() {
			if sp.Name == name {
				sp.Enabled = false
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no subprinter named %q", name)
		}
	}
	return nil
}

func selectRoots(all []manifest.Root, names []string) ([]manifest.Root, error) {
	byName := make(map[string]manifest.Root, len(all))
	for _, r := range all {
		byName[r.Name] = r
	}
	out := make([]manifest.Root, 0, len(names))
	for _, n := range names {
		r, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("manifest has no root named %q", n)
		}
		out = append(out, r)
	}
	return out, nil
}
