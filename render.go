package mdnotes

import "github.com/alnah/go-mdnotes/internal/pipeline"

// Render converts note markdown to an HTML fragment.
// It never fails and is safe for concurrent use. The output is not
// sanitized: raw HTML in the source passes through.
func Render(markdown string) string {
	return pipeline.Render(markdown)
}
