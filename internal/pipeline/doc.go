// Package pipeline implements the markdown-to-HTML rendering pipeline and the
// HTML post-processing used by previews and exports.
//
// This package handles rendering and document assembly stages:
//   - Line ending normalization
//   - Markdown to HTML rendering through an ordered chain of rewrite rules
//   - Sanitization of rendered markup for untrusted viewers
//   - Document assembly (HTML5 page, Word payload) from embedded templates
//   - CSS injection into HTML documents
//   - Relative asset path resolution for browser-based printing
//
// The rule chain is deliberately not a CommonMark parser. It is a fixed,
// single pass of text substitutions whose output, including its quirks, is
// shared verbatim by the live preview and every export format.
//
// PDF printing is handled by the root mdnotes package using headless Chrome
// (go-rod). This package never touches the network or the filesystem except
// through the paths it is asked to rewrite.
package pipeline
