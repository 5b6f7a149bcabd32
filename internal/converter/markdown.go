package converter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yomu-dev/scan2book/internal/book"
	"github.com/yomu-dev/scan2book/internal/inline"
)

// MarkdownOptions configures the markdown serializer.
type MarkdownOptions struct {
	// InlineMarkdown renders text-block content back to markdown inline
	// syntax instead of raw HTML fragments, for hand editing. Round-trip
	// equality is preserved either way.
	InlineMarkdown bool
}

// GenerateMarkdown serializes a book back to the annotated-markdown
// dialect. For any parsed book b, parsing the output again yields a
// model deep-equal to b.
func GenerateMarkdown(b *book.Book, opts MarkdownOptions) (string, error) {
	fm, err := buildFrontmatter(&b.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to build frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fm)
	sb.WriteString("---\n")

	for _, p := range b.Pages {
		fmt.Fprintf(&sb, "\n<!-- page index=%d type=%q bilingual=%q -->\n",
			p.Index, string(p.Type), strconv.FormatBool(p.Bilingual))
		for _, el := range p.Elements {
			writeElementMarkdown(&sb, el, opts)
		}
	}
	return sb.String(), nil
}

func writeElementMarkdown(sb *strings.Builder, el book.Element, opts MarkdownOptions) {
	switch el := el.(type) {
	case *book.Image:
		fmt.Fprintf(sb, "\n![%s](%s)", el.Alt, el.Src)
		if el.Attributes != "" {
			fmt.Fprintf(sb, "{%s}", el.Attributes)
		}
		sb.WriteString("\n")
	case *book.TextBlock:
		for _, lang := range el.Langs {
			if el.Field != "" {
				fmt.Fprintf(sb, "\n<!-- text lang=%q field=%q -->\n", lang, el.Field)
			} else {
				fmt.Fprintf(sb, "\n<!-- text lang=%q -->\n", lang)
			}
			content := el.Content[lang]
			if opts.InlineMarkdown {
				content = inline.ToMarkdown(content)
			}
			if content != "" {
				sb.WriteString("\n")
				sb.WriteString(content)
				sb.WriteString("\n")
			}
		}
	}
}

// buildFrontmatter rebuilds the YAML frontmatter block. yaml.MapSlice
// keeps the emission order deterministic: required keys first, optional
// scalars next, unknown extras last in sorted order.
func buildFrontmatter(md *book.Metadata) (string, error) {
	doc := yaml.MapSlice{
		{Key: "allTitles", Value: sortedLangMap(md.AllTitles)},
		{Key: "languages", Value: sortedLangMap(md.Languages)},
		{Key: "l1", Value: md.L1},
	}

	scalars := [][2]string{
		{"l2", md.L2},
		{"l3", md.L3},
		{"isbn", md.ISBN},
		{"copyright", md.Copyright},
		{"license", md.License},
		{"licenseUrl", md.LicenseURL},
		{"credits", md.Credits},
		{"publisher", md.Publisher},
		{"country", md.Country},
	}
	for _, kv := range scalars {
		if kv[1] != "" {
			doc = append(doc, yaml.MapItem{Key: kv[0], Value: kv[1]})
		}
	}
	if len(md.Tags) > 0 {
		doc = append(doc, yaml.MapItem{Key: "tags", Value: md.Tags})
	}
	for _, k := range md.SortedExtraKeys() {
		doc = append(doc, yaml.MapItem{Key: k, Value: md.Extra[k]})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func sortedLangMap(m map[string]string) yaml.MapSlice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		out = append(out, yaml.MapItem{Key: k, Value: m[k]})
	}
	return out
}
