// Command samplepdf writes a throwaway PDF for manual signing tests.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"digisign/portal-backend/pkg/pdf"
)

func main() {
	out := flag.String("o", "dummy.pdf", "output file")
	pages := flag.Int("pages", 1, "number of pages")
	text := flag.String("text", "", "text printed on every page")
	flag.Parse()

	opts := pdf.DefaultGenerateOptions()
	opts.Pages = *pages
	if *text != "" {
		opts.Text = *text
	}

	data, err := pdf.NewGenerator().Generate(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("PDF '%s' created with %d page(s)\n", *out, opts.Pages)
}
