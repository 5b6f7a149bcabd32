// Package inline converts between the constrained markdown subset used
// inside text blocks and HTML fragments. The two directions invert each
// other exactly over the supported subset, so for any input s:
//
//	ToHTML(ToMarkdown(ToHTML(s))) == ToHTML(s)
package inline

import (
	"regexp"
	"strings"
)

// Forward rules, applied in fixed order: headings, strong, emphasis,
// links, then paragraph wrapping.
var (
	h1Re             = regexp.MustCompile(`(?m)^# (.+)$`)
	h2Re             = regexp.MustCompile(`(?m)^## (.+)$`)
	boldAsteriskRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__([^_]+)__`)
	emAsteriskRe     = regexp.MustCompile(`\*([^*]+)\*`)
	emUnderscoreRe   = regexp.MustCompile(`_([^_]+)_`)
	linkRe           = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

	blankLineRe    = regexp.MustCompile(`\n[ \t]*\n`)
	innerNewlineRe = regexp.MustCompile(`[ \t]*\n[ \t]*`)

	// blockTagRe recognizes fragments that already start with a block
	// tag and must not be wrapped in <p>.
	blockTagRe = regexp.MustCompile(`(?i)^<(h[1-6]|p|div|ul|ol|li|blockquote|hr|table|figure|figcaption)[\s/>]`)
)

// Reverse rules, inverting the forward rules one by one.
var (
	htmlH1Re     = regexp.MustCompile(`(?is)<h1>(.*?)</h1>`)
	htmlH2Re     = regexp.MustCompile(`(?is)<h2>(.*?)</h2>`)
	htmlStrongRe = regexp.MustCompile(`(?is)<strong>(.*?)</strong>`)
	htmlEmRe     = regexp.MustCompile(`(?is)<em>(.*?)</em>`)
	htmlLinkRe   = regexp.MustCompile(`(?is)<a href="([^"]*)">(.*?)</a>`)
	htmlParaRe   = regexp.MustCompile(`(?i)</?p>`)
)

// ToHTML converts a markdown fragment to an HTML fragment.
func ToHTML(md string) string {
	s := md
	s = h1Re.ReplaceAllString(s, "<h1>$1</h1>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	s = boldAsteriskRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = boldUnderscoreRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = emAsteriskRe.ReplaceAllString(s, "<em>$1</em>")
	s = emUnderscoreRe.ReplaceAllString(s, "<em>$1</em>")
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return wrapParagraphs(s)
}

// wrapParagraphs splits on blank lines, collapses internal newlines to
// single spaces, and wraps each non-empty block in <p> unless it
// already begins with a recognized block tag.
func wrapParagraphs(s string) string {
	var blocks []string
	for _, block := range blankLineRe.Split(s, -1) {
		t := strings.TrimSpace(block)
		if t == "" {
			continue
		}
		t = innerNewlineRe.ReplaceAllString(t, " ")
		if !blockTagRe.MatchString(t) {
			t = "<p>" + t + "</p>"
		}
		blocks = append(blocks, t)
	}
	return strings.Join(blocks, "\n\n")
}

// ToMarkdown converts an HTML fragment produced by ToHTML back to
// markdown, stripping <p> wrappers and restoring markdown syntax.
func ToMarkdown(html string) string {
	s := html
	s = htmlH1Re.ReplaceAllString(s, "# $1")
	s = htmlH2Re.ReplaceAllString(s, "## $1")
	s = htmlStrongRe.ReplaceAllString(s, "**$1**")
	s = htmlEmRe.ReplaceAllString(s, "*$1*")
	s = htmlLinkRe.ReplaceAllString(s, "[$2]($1)")
	s = htmlParaRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
