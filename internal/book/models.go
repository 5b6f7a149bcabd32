package book

import "regexp"

// UnknownLang is the reserved language code assigned to text that could
// not be classified. Input is preserved under this code and flagged with
// a warning instead of being dropped.
const UnknownLang = "unk"

// PageType classifies a page for front/back-matter styling.
type PageType string

const (
	PageTypeContent     PageType = "content"
	PageTypeFrontMatter PageType = "front-matter"
	PageTypeBackMatter  PageType = "back-matter"
	PageTypeEmpty       PageType = "empty"
)

// Book is the parsed document model: book-level metadata plus the
// ordered, non-empty pages. A Book owns its pages exclusively.
type Book struct {
	Metadata Metadata
	Pages    []*Page
}

// Page holds the ordered elements of a single book page.
type Page struct {
	Index int
	Type  PageType
	// Bilingual reports whether the page presents its material in more
	// than one language. An explicit page-marker attribute wins over
	// content inference.
	Bilingual bool
	Elements  []Element
}

// Element is a single page element: either a *TextBlock or an *Image.
type Element interface {
	element()
}

// TextBlock holds the same material in one or more languages.
// Content maps a language code to an HTML fragment; Langs records the
// encounter order of the language codes, which map iteration loses.
type TextBlock struct {
	Content map[string]string
	Langs   []string
	Field   string
}

func (*TextBlock) element() {}

// IsBilingual reports whether the block carries more than one language.
func (t *TextBlock) IsBilingual() bool {
	return len(t.Langs) > 1
}

// Image is a page image reference with optional alt text and a raw
// attribute string (e.g. "width=993").
type Image struct {
	Src        string
	Alt        string
	Attributes string
}

func (*Image) element() {}

// AttributeList parses the raw attribute string into ordered key/value
// pairs. Unparseable fragments are skipped.
func (img *Image) AttributeList() [][2]string {
	if img.Attributes == "" {
		return nil
	}
	var pairs [][2]string
	for _, m := range attrRe.FindAllStringSubmatch(img.Attributes, -1) {
		pairs = append(pairs, [2]string{m[1], attrValue(m)})
	}
	return pairs
}

// Metadata is the validated book-level metadata record. Unknown
// frontmatter keys are preserved in Extra for forward compatibility.
type Metadata struct {
	AllTitles map[string]string // language code -> title
	Languages map[string]string // language code -> display name

	L1 string // primary language, must be a key of Languages
	L2 string // optional, must be a key of Languages when present
	L3 string // optional

	ISBN       string
	Copyright  string
	License    string
	LicenseURL string
	Credits    string
	Publisher  string
	Country    string
	Tags       []string

	Extra map[string]string
}

// HasLanguage reports whether code is declared in Languages.
func (m *Metadata) HasLanguage(code string) bool {
	_, ok := m.Languages[code]
	return ok
}

// Title returns the title in the primary language, or "" if absent.
func (m *Metadata) Title() string {
	return m.AllTitles[m.L1]
}

// attrRe matches one key=value attribute. Values may be double-quoted,
// single-quoted, or bare; quoting style is insignificant.
var attrRe = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=,]+))`)

// attrValue picks the populated capture group of an attrRe match.
func attrValue(m []string) string {
	for _, v := range m[2:] {
		if v != "" {
			return v
		}
	}
	return ""
}
