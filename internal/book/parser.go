package book

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yomu-dev/scan2book/internal/inline"
)

var (
	// pageMarkerRe matches a page-marker comment and captures its
	// attribute text. Attribute order, quoting, and spacing are all
	// insignificant.
	pageMarkerRe = regexp.MustCompile(`<!--\s*page\b([^>]*?)-->`)

	// textMarkerRe matches a text-marker comment occupying a whole line.
	textMarkerRe = regexp.MustCompile(`^\s*<!--\s*text\b([^>]*?)-->\s*$`)

	// imageLineRe matches an image line: ![alt](src) with an optional
	// {attrs} suffix.
	imageLineRe = regexp.MustCompile(`^\s*!\[([^\]]*)\]\(([^)\s]*)\)(?:\{([^}]*)\})?\s*$`)
)

// Parse parses an annotated-markdown document into a Book. The returned
// Diagnostics carries every warning and error collected along the way;
// the error is non-nil exactly when an error-severity finding occurred,
// and aggregates all of them.
func Parse(src string) (*Book, *Diagnostics, error) {
	diags := &Diagnostics{}

	fm, body, err := ExtractFrontmatter(src)
	if err != nil {
		diags.Errorf("%v", err)
		return nil, diags, diags.Err()
	}

	md := ParseMetadata(fm, diags)
	if diags.HasErrors() {
		return nil, diags, diags.Err()
	}

	b := &Book{
		Metadata: md,
		Pages:    parseBody(body, diags),
	}
	checkDeclaredLanguages(b, diags)

	if diags.HasErrors() {
		return nil, diags, diags.Err()
	}
	return b, diags, nil
}

// rawPage is one page-marker's attribute set plus the text up to the
// next marker.
type rawPage struct {
	attrs   map[string]string
	text    string
	ordinal int // 1-based position, default page index
}

// parseBody splits the body on page markers and parses each page.
// Pages that produce zero elements are dropped, never materialized.
func parseBody(body string, diags *Diagnostics) []*Page {
	locs := pageMarkerRe.FindAllStringSubmatchIndex(body, -1)

	var raws []rawPage
	preamble := body
	if len(locs) > 0 {
		preamble = body[:locs[0][0]]
	}
	if strings.TrimSpace(preamble) != "" {
		diags.Warnf("content before first page marker, treating as an unmarked page")
		raws = append(raws, rawPage{attrs: map[string]string{}, text: preamble})
	}
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		raws = append(raws, rawPage{
			attrs: parseAttrs(body[loc[2]:loc[3]]),
			text:  body[loc[1]:end],
		})
	}
	for i := range raws {
		raws[i].ordinal = i + 1
	}

	var pages []*Page
	for _, r := range raws {
		if p := parsePage(r, diags); p != nil {
			pages = append(pages, p)
		}
	}
	return pages
}

// parseAttrs parses marker attribute text into a key/value map with
// lowercased keys.
func parseAttrs(s string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		attrs[strings.ToLower(m[1])] = attrValue(m)
	}
	return attrs
}

func parsePage(raw rawPage, diags *Diagnostics) *Page {
	index := raw.ordinal
	if v, ok := raw.attrs["index"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			diags.Warnf("page %d: invalid index attribute %q", raw.ordinal, v)
		} else {
			index = n
		}
	}

	s := &pageScanner{index: index, diags: diags}
	for _, line := range strings.Split(raw.text, "\n") {
		s.scanLine(line)
	}
	s.finish()

	if len(s.elements) == 0 {
		return nil
	}

	return &Page{
		Index:     index,
		Type:      pageType(raw, diags),
		Bilingual: pageBilingual(raw.attrs, s.elements),
		Elements:  s.elements,
	}
}

func pageType(raw rawPage, diags *Diagnostics) PageType {
	v, ok := raw.attrs["type"]
	if !ok || v == "" {
		return PageTypeContent
	}
	switch t := PageType(strings.ToLower(v)); t {
	case PageTypeContent, PageTypeFrontMatter, PageTypeBackMatter, PageTypeEmpty:
		return t
	default:
		diags.Warnf("page %d: unknown page type %q, treating as %q", raw.ordinal, v, PageTypeContent)
		return PageTypeContent
	}
}

// pageBilingual resolves the bilingual flag: an explicit marker
// attribute wins; otherwise the page is bilingual iff any text block
// carries more than one language.
func pageBilingual(attrs map[string]string, elements []Element) bool {
	if v, ok := attrs["bilingual"]; ok {
		return strings.EqualFold(v, "true")
	}
	for _, el := range elements {
		if tb, ok := el.(*TextBlock); ok && tb.IsBilingual() {
			return true
		}
	}
	return false
}

// pageScanner is the single-pass line scanner for one page body.
type pageScanner struct {
	index int
	diags *Diagnostics

	elements []Element
	block    *TextBlock
	lang     string
	field    string
	buffer   []string
}

func (s *pageScanner) scanLine(line string) {
	if m := imageLineRe.FindStringSubmatch(line); m != nil {
		s.flushText()
		s.pushBlock()
		s.elements = append(s.elements, &Image{Alt: m[1], Src: m[2], Attributes: m[3]})
		s.lang, s.field = "", ""
		return
	}

	if m := textMarkerRe.FindStringSubmatch(line); m != nil {
		attrs := parseAttrs(m[1])
		s.flushText()
		lang := attrs["lang"]
		if lang == "" {
			s.diags.Warnf("page %d: text marker missing lang attribute, captured under language %q", s.index, UnknownLang)
			lang = UnknownLang
		}
		s.enterLanguage(lang, attrs["field"])
		return
	}

	if s.lang == "" {
		if strings.TrimSpace(line) == "" {
			return
		}
		// Untagged material is preserved under the reserved unknown
		// language code rather than discarded.
		s.diags.Warnf("page %d: text outside language block, captured under language %q", s.index, UnknownLang)
		s.enterLanguage(UnknownLang, s.field)
	}
	s.buffer = append(s.buffer, line)
}

// enterLanguage switches the scanner to a new language context,
// starting a fresh block when there is no current one, when the field
// changed, or when the current block already holds content for lang.
func (s *pageScanner) enterLanguage(lang, field string) {
	if s.block == nil || field != s.block.Field || s.blockHasLang(lang) {
		s.pushBlock()
		s.block = &TextBlock{Content: map[string]string{}, Field: field}
	}
	s.lang = lang
	s.field = field
	s.buffer = nil
}

func (s *pageScanner) blockHasLang(lang string) bool {
	_, ok := s.block.Content[lang]
	return ok
}

// flushText converts the buffered lines to an HTML fragment and stores
// them on the current block under the current language.
func (s *pageScanner) flushText() {
	if s.lang == "" {
		return
	}
	if s.block == nil {
		s.block = &TextBlock{Content: map[string]string{}, Field: s.field}
	}
	if !s.blockHasLang(s.lang) {
		s.block.Langs = append(s.block.Langs, s.lang)
	}
	s.block.Content[s.lang] = inline.ToHTML(strings.Join(s.buffer, "\n"))
	s.buffer = nil
	s.lang = ""
}

// pushBlock moves the current block onto the element list. A block that
// ends with no language keys at all signals a scanner defect, not bad
// user data, and is reported as an error.
func (s *pageScanner) pushBlock() {
	if s.block == nil {
		return
	}
	if len(s.block.Langs) == 0 {
		s.diags.Errorf("page %d: text block ended with no language content", s.index)
	} else {
		s.elements = append(s.elements, s.block)
	}
	s.block = nil
}

func (s *pageScanner) finish() {
	s.flushText()
	s.pushBlock()
}

// checkDeclaredLanguages warns once per language that appears in a text
// block but is not declared in the metadata languages map.
func checkDeclaredLanguages(b *Book, diags *Diagnostics) {
	seen := map[string]bool{}
	for _, p := range b.Pages {
		for _, el := range p.Elements {
			tb, ok := el.(*TextBlock)
			if !ok {
				continue
			}
			for _, lang := range tb.Langs {
				if lang == UnknownLang || seen[lang] || b.Metadata.HasLanguage(lang) {
					continue
				}
				seen[lang] = true
				diags.Warnf("language %q is used but not declared in %q", lang, "languages")
			}
		}
	}
}
