package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup that is unsafe to show in a browser.
type Sanitizer interface {
	Sanitize(htmlContent string) string
}

// PolicySanitizer sanitizes with a bluemonday user-generated-content policy
// that keeps everything the rule chain can produce.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a PolicySanitizer.
// Links keep target="_blank" and always carry rel="noreferrer"; inline
// data: images are allowed.
func NewSanitizer() *PolicySanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)
	p.AllowDataURIImages()
	return &PolicySanitizer{policy: p}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
// Safe for concurrent use.
func (s *PolicySanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

// Compile-time interface check.
var _ Sanitizer = (*PolicySanitizer)(nil)
