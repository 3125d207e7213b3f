package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/porticus-lab/go-lead-report/internal/pdfinfo"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Display PDF version and page dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return inspect(a.stdout, args[0])
		},
	}
}

func inspect(w io.Writer, path string) error {
	doc, err := pdfinfo.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	pages, err := doc.Pages()
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}

	fmt.Fprintf(w, "File:    %s\n", path)
	fmt.Fprintf(w, "Version: PDF-%s\n", doc.Version())
	fmt.Fprintf(w, "Pages:   %d\n", len(pages))

	if len(pages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Page dimensions:")
		for i, p := range pages {
			fmt.Fprintf(w, "  Page %d: %.0f x %.0f pt", i+1, p.Width, p.Height)
			if p.Rotation != 0 {
				fmt.Fprintf(w, " (rotated %d°)", p.Rotation)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
