// Package mdnotes manages markdown notes and turns them into HTML, Word,
// PDF and markdown files.
//
// # Rendering
//
// Render converts note markdown to an HTML fragment with a fixed chain of
// rewrite rules (headings, emphasis, links, images, lists, code, quotes,
// rules, tables, paragraphs). It is not a CommonMark parser: the same input
// always yields the same fragment, quirks included, and it never fails.
//
//	html := mdnotes.Render("# Groceries\n\n- milk\n- **eggs**")
//
// # Notes
//
// A Notebook stores notes through an internal store (SQLite or in memory)
// and derives titles from content:
//
//	nb := mdnotes.NewNotebook(st)
//	n, err := nb.CreateWithContent(ctx, "# Ideas\n\nShip it")
//
// # Export
//
// An Exporter wraps rendered notes into standalone documents. PDF output is
// printed by headless Chrome (go-rod), launched on first use:
//
//	exp, err := mdnotes.NewExporter(mdnotes.WithPage(&mdnotes.PageSettings{Size: "letter"}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.Export(ctx, mdnotes.ExportInput{Markdown: n.Content, Format: mdnotes.FormatPDF})
//	os.WriteFile(res.FileName, res.Data, 0644)
//
// Use ExporterPool to export many notes in parallel, one browser per worker.
package mdnotes
