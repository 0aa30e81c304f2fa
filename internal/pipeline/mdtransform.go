package pipeline

import (
	"context"
	"regexp"
)

// Precompiled regex patterns for source normalization.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// MarkdownRenderer defines the contract for turning note markdown into HTML.
type MarkdownRenderer interface {
	RenderMarkdown(ctx context.Context, content string) string
}

// RuleRenderer renders markdown with the fixed rule chain.
// The zero value is ready to use and safe for concurrent use.
type RuleRenderer struct{}

// RenderMarkdown renders content through the rule chain.
// Returns an empty string if the context is already cancelled.
func (r *RuleRenderer) RenderMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return ""
	}
	return Render(content)
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
