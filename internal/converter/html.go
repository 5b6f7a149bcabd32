package converter

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yomu-dev/scan2book/internal/book"
	"github.com/yomu-dev/scan2book/internal/origami"
)

const (
	generatorName = "scan2book"
	// Version is stamped into the generated HTML head.
	Version = "0.4.0"

	// untitledFallback is used when no book title can be resolved.
	untitledFallback = "untitled"
)

// outputFieldKeys maps source field names (lowercased) onto the keys
// used in the data div. Several contributor-ish fields collapse onto a
// single combined key.
var outputFieldKeys = map[string]string{
	"title":           "bookTitle",
	"booktitle":       "bookTitle",
	"copyright":       "copyright",
	"credits":         "originalContributions",
	"author":          "originalContributions",
	"illustrator":     "originalContributions",
	"publisher":       "originalContributions",
	"acknowledgments": "originalAcknowledgments",
	"license":         "licenseNotes",
	"isbn":            "ISBN",
	"funding":         "funding",
}

// outputFieldKey resolves a source field name to its data-div key.
// Unknown field names pass through unchanged.
func outputFieldKey(field string) string {
	if k, ok := outputFieldKeys[strings.ToLower(field)]; ok {
		return k
	}
	return field
}

// GenerateHTML serializes a book to the final presentation HTML
// document: head, data div, and one origami-compiled container per
// page. Orientation is fixed to Portrait. Warnings accumulate on diags.
func GenerateHTML(b *book.Book, diags *book.Diagnostics) (string, error) {
	if b.Metadata.L1 == "" {
		return "", fmt.Errorf("metadata has no primary language")
	}

	fields := collectFields(b)
	title := fragmentText(fields.value("bookTitle", b.Metadata.L1))
	if title == "" {
		diags.Warnf("no book title found for language %q, defaulting to %q", b.Metadata.L1, untitledFallback)
		title = untitledFallback
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<meta name=\"generator\" content=%q>\n", generatorName)
	fmt.Fprintf(&sb, "<meta name=\"%s-version\" content=%q>\n", generatorName, Version)
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("<style>\n")
	sb.WriteString(layoutStylesheet)
	sb.WriteString("</style>\n</head>\n<body>\n")

	writeDataDiv(&sb, b, fields)

	for _, p := range b.Pages {
		tree, err := origami.Compile(p.Elements, origami.Portrait)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", p.Index, err)
		}
		fmt.Fprintf(&sb, "<div class=%q id=\"page-%d\">\n", pageClasses(p.Type), p.Index)
		writeNode(&sb, tree)
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

func pageClasses(t book.PageType) string {
	switch t {
	case book.PageTypeFrontMatter:
		return "page front-matter"
	case book.PageTypeBackMatter:
		return "page back-matter"
	default:
		return "page"
	}
}

// fieldGroups holds field-tagged block content grouped by output key
// and language, in encounter order.
type fieldGroups struct {
	keys  []string
	langs map[string][]string
	parts map[string]map[string][]string
}

func collectFields(b *book.Book) *fieldGroups {
	g := &fieldGroups{
		langs: map[string][]string{},
		parts: map[string]map[string][]string{},
	}
	for _, p := range b.Pages {
		for _, el := range p.Elements {
			tb, ok := el.(*book.TextBlock)
			if !ok || tb.Field == "" {
				continue
			}
			key := outputFieldKey(tb.Field)
			if g.parts[key] == nil {
				g.keys = append(g.keys, key)
				g.parts[key] = map[string][]string{}
			}
			for _, lang := range tb.Langs {
				if _, seen := g.parts[key][lang]; !seen {
					g.langs[key] = append(g.langs[key], lang)
				}
				g.parts[key][lang] = append(g.parts[key][lang], tb.Content[lang])
			}
		}
	}
	return g
}

// value returns the joined content for one key and language, with
// "<br>" separating multiple source blocks in encounter order.
func (g *fieldGroups) value(key, lang string) string {
	return strings.Join(g.parts[key][lang], "<br>")
}

// writeDataDiv emits the hidden metadata block. Content-language-1 is
// always present; content-language-2 only when more than half of all
// pages are flagged bilingual.
func writeDataDiv(sb *strings.Builder, b *book.Book, fields *fieldGroups) {
	sb.WriteString("<div id=\"bookData\" style=\"display:none\">\n")
	writeDataEntry(sb, "contentLanguage1", "*", html.EscapeString(b.Metadata.L1))
	if b.Metadata.L2 != "" && majorityBilingual(b.Pages) {
		writeDataEntry(sb, "contentLanguage2", "*", html.EscapeString(b.Metadata.L2))
	}

	for _, key := range fields.keys {
		for _, lang := range fields.langs[key] {
			writeDataEntry(sb, key, lang, fields.value(key, lang))
		}
	}

	writeMetadataEntries(sb, &b.Metadata)
	sb.WriteString("</div>\n")
}

// writeMetadataEntries emits the frontmatter-derived scalars. When only
// one of license/licenseUrl is present, the other is derived from the
// bidirectional license table.
func writeMetadataEntries(sb *strings.Builder, md *book.Metadata) {
	license, licenseURL := md.License, md.LicenseURL
	if license == "" && licenseURL != "" {
		if code, ok := LicenseCode(licenseURL); ok {
			license = code
		}
	}
	if licenseURL == "" && license != "" {
		if url, ok := LicenseURL(license); ok {
			licenseURL = url
		}
	}

	scalars := [][2]string{
		{"copyright", md.Copyright},
		{"license", license},
		{"licenseUrl", licenseURL},
		{"ISBN", md.ISBN},
		{"credits", md.Credits},
		{"publisher", md.Publisher},
		{"country", md.Country},
		{"tags", strings.Join(md.Tags, ", ")},
	}
	for _, kv := range scalars {
		if kv[1] != "" {
			writeDataEntry(sb, kv[0], "*", html.EscapeString(kv[1]))
		}
	}
}

func writeDataEntry(sb *strings.Builder, key, lang, content string) {
	fmt.Fprintf(sb, "<div data-book=%q lang=%q>%s</div>\n", key, lang, content)
}

// majorityBilingual reports whether strictly more than half of the
// pages are flagged bilingual. This is a whole-book majority vote, not
// a per-page decision.
func majorityBilingual(pages []*book.Page) bool {
	count := 0
	for _, p := range pages {
		if p.Bilingual {
			count++
		}
	}
	return 2*count > len(pages)
}

// writeNode renders a layout tree node. Splits render as a split-pane
// wrapper with two component slots and a divider between them; leaves
// render as translation-group or image containers.
func writeNode(sb *strings.Builder, n *origami.Node) {
	if n.IsLeaf() {
		writeLeaf(sb, n.Item)
		return
	}

	pane, divider, first, second := "horizontal-percent", "horizontal-divider", "position-top", "position-bottom"
	if n.Axis == origami.SplitVertical {
		pane, divider, first, second = "vertical-percent", "vertical-divider", "position-left", "position-right"
	}

	fmt.Fprintf(sb, "<div class=\"split-pane %s\">\n", pane)
	fmt.Fprintf(sb, "<div class=\"split-pane-component %s\">\n", first)
	writeNode(sb, n.First)
	sb.WriteString("</div>\n")
	fmt.Fprintf(sb, "<div class=\"split-pane-divider %s\"></div>\n", divider)
	fmt.Fprintf(sb, "<div class=\"split-pane-component %s\">\n", second)
	writeNode(sb, n.Second)
	sb.WriteString("</div>\n</div>\n")
}

func writeLeaf(sb *strings.Builder, el book.Element) {
	switch el := el.(type) {
	case *book.TextBlock:
		if el.Field != "" {
			fmt.Fprintf(sb, "<div class=\"translation-group\" data-field=%q>\n", el.Field)
		} else {
			sb.WriteString("<div class=\"translation-group\">\n")
		}
		for _, lang := range el.Langs {
			fmt.Fprintf(sb, "<div class=\"text-block\" lang=%q>%s</div>\n", lang, el.Content[lang])
		}
		sb.WriteString("</div>\n")
	case *book.Image:
		sb.WriteString("<div class=\"image-container\">")
		fmt.Fprintf(sb, "<img src=%q", el.Src)
		if el.Alt != "" {
			fmt.Fprintf(sb, " alt=%q", el.Alt)
		}
		for _, attr := range el.AttributeList() {
			fmt.Fprintf(sb, " %s=%q", attr[0], attr[1])
		}
		sb.WriteString("/></div>\n")
	}
}

// fragmentText extracts the plain text of an HTML fragment, e.g. for
// the document <title>.
func fragmentText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
