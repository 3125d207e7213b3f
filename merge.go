package leadreport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/porticus-lab/go-lead-report/internal/pdfinfo"
)

// MergePDFs writes the pages of inputs, in order, to dst and returns the
// page count of the result. dst is only replaced once the merged file has
// been written and its page count verified.
func MergePDFs(dst string, inputs ...string) (int, error) {
	pages, err := concatPDFs(dst, inputs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMerge, err)
	}
	return pages, nil
}

func concatPDFs(dst string, inputs []string) (int, error) {
	if len(inputs) == 0 {
		return 0, errors.New("no input files")
	}
	counts := make([]int, len(inputs))
	want := 0
	for i, in := range inputs {
		n, err := pdfinfo.PageCount(in)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", in, err)
		}
		counts[i] = n
		want += n
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if err := importPages(pdf, inputs, counts); err != nil {
		return 0, err
	}
	if pdf.Err() {
		return 0, pdf.Error()
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".merge-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(name)
		}
	}()

	if err := pdf.Output(tmp); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing merged file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("syncing merged file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing merged file: %w", err)
	}

	got, err := pdfinfo.PageCount(name)
	if err != nil {
		return 0, fmt.Errorf("verifying merged file: %w", err)
	}
	if got != want {
		return 0, fmt.Errorf("merged file has %d pages, want %d", got, want)
	}
	if err := os.Rename(name, dst); err != nil {
		return 0, fmt.Errorf("moving merged file into place: %w", err)
	}
	committed = true
	return got, nil
}

// importPages copies every page of inputs into pdf at its original size.
// The importer panics on unreadable input, which is reported as an error.
//
// One importer serves every input: template names are numbered per
// importer, and a second importer would reuse the names of the first.
func importPages(pdf *fpdf.Fpdf, inputs []string, counts []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing pages: %v", r)
		}
	}()
	imp := gofpdi.NewImporter()
	for i, in := range inputs {
		for p := 1; p <= counts[i]; p++ {
			tpl := imp.ImportPage(pdf, in, p, "/MediaBox")
			box := imp.GetPageSizes()[p]["/MediaBox"]
			w, h := box["w"], box["h"]
			pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
			imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
		}
	}
	return nil
}
