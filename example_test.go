package leadreport_test

import (
	"context"
	"fmt"
	"log"
	"time"

	leadreport "github.com/porticus-lab/go-lead-report"
	"github.com/porticus-lab/go-lead-report/internal/render"
)

func Example() {
	// The converter keeps one browser for every report.
	c, err := render.NewConverter(render.WithNoSandbox())
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w, err := leadreport.NewWriter(c)
	if err != nil {
		log.Fatal(err)
	}

	// Column widths computed from the content, glossary merged when present.
	rep, err := w.Generate(context.Background(), "leads.csv", nil, leadreport.Options{
		GlossaryPath: "glossary.pdf",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %d pages\n", rep.Path, rep.Pages)
}

func Example_customLayout() {
	c, err := render.NewConverter(
		render.WithTimeout(60*time.Second),
		render.WithNoSandbox(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	pg := render.DefaultPageConfig()
	pg.Size = render.Letter

	dec := leadreport.DefaultDecoration()
	dec.Title = "Northern region"
	dec.PageLabel = "Page {page} of {pages}"
	dec.WatermarkPath = "logo.png"

	w, err := leadreport.NewWriter(c,
		leadreport.WithPage(pg),
		leadreport.WithDecoration(dec),
	)
	if err != nil {
		log.Fatal(err)
	}

	scheme, _ := leadreport.PaletteByName("C")
	rep, err := w.Generate(context.Background(), "leads.csv", []float64{150, 80, 210}, leadreport.Options{
		Title:  "Q3 leads",
		Sort:   leadreport.SortKey{Column: "City"},
		Scheme: &scheme,
		Cover:  true,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rep.Path)
}

func ExampleComputeWidths() {
	ds, err := leadreport.NewDataset(
		[]string{"Name", "Phone"},
		[][]string{{"Acme Corporation", "555-0100"}},
	)
	if err != nil {
		log.Fatal(err)
	}
	widths, err := leadreport.ComputeWidths(ds, 600, 0, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.0f %.0f\n", widths[0], widths[1])
	// Output: 400 200
}
