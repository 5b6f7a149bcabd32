package book

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrNoFrontmatter is returned when the document does not start with a
// YAML block delimited by "---" lines.
var ErrNoFrontmatter = errors.New("no YAML frontmatter found")

// frontmatterRe matches a leading ---\n...\n--- block.
var frontmatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)

// ExtractFrontmatter splits a document into its YAML frontmatter text
// and the remaining body. When no frontmatter is present it returns
// ErrNoFrontmatter with the whole document as the body.
func ExtractFrontmatter(doc string) (frontmatter, body string, err error) {
	m := frontmatterRe.FindStringSubmatchIndex(doc)
	if m == nil {
		return "", doc, ErrNoFrontmatter
	}
	return doc[m[2]:m[3]], doc[m[1]:], nil
}

// metadataEnvelope mirrors the known frontmatter keys for YAML
// deserialization.
type metadataEnvelope struct {
	AllTitles  map[string]string `yaml:"allTitles"`
	Languages  map[string]string `yaml:"languages"`
	L1         string            `yaml:"l1"`
	L2         string            `yaml:"l2"`
	L3         string            `yaml:"l3"`
	ISBN       string            `yaml:"isbn"`
	Copyright  string            `yaml:"copyright"`
	License    string            `yaml:"license"`
	LicenseURL string            `yaml:"licenseUrl"`
	Credits    string            `yaml:"credits"`
	Publisher  string            `yaml:"publisher"`
	Country    string            `yaml:"country"`
	Tags       []string          `yaml:"tags"`
}

var knownMetadataKeys = map[string]bool{
	"allTitles": true, "languages": true,
	"l1": true, "l2": true, "l3": true,
	"isbn": true, "copyright": true, "license": true, "licenseUrl": true,
	"credits": true, "publisher": true, "country": true, "tags": true,
}

// ParseMetadata deserializes and validates frontmatter text. Validation
// failures accumulate on diags; the returned record is usable only when
// diags carries no errors afterwards.
func ParseMetadata(src string, diags *Diagnostics) Metadata {
	var env metadataEnvelope
	if strings.TrimSpace(src) != "" {
		if err := yaml.Unmarshal([]byte(src), &env); err != nil {
			diags.Errorf("invalid YAML frontmatter: %v", err)
			return Metadata{}
		}
	}

	md := Metadata{
		AllTitles:  env.AllTitles,
		Languages:  env.Languages,
		L1:         env.L1,
		L2:         env.L2,
		L3:         env.L3,
		ISBN:       env.ISBN,
		Copyright:  env.Copyright,
		License:    env.License,
		LicenseURL: env.LicenseURL,
		Credits:    env.Credits,
		Publisher:  env.Publisher,
		Country:    env.Country,
		Tags:       env.Tags,
		Extra:      extraKeys(src),
	}

	validateMetadata(&md, diags)
	return md
}

// extraKeys collects frontmatter keys outside the known set, preserving
// them as strings for regeneration.
func extraKeys(src string) map[string]string {
	extra := map[string]string{}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(src), &raw); err != nil {
		return extra
	}
	for k, v := range raw {
		if !knownMetadataKeys[k] {
			extra[k] = fmt.Sprintf("%v", v)
		}
	}
	return extra
}

func validateMetadata(md *Metadata, diags *Diagnostics) {
	if len(md.AllTitles) == 0 {
		diags.Errorf("missing required metadata key %q", "allTitles")
	}
	if len(md.Languages) == 0 {
		diags.Errorf("missing required metadata key %q", "languages")
	}
	if md.L1 == "" {
		diags.Errorf("missing required metadata key %q", "l1")
	} else if len(md.Languages) > 0 && !md.HasLanguage(md.L1) {
		diags.Errorf("primary language %q is not declared in %q", md.L1, "languages")
	}
	if md.L2 != "" && len(md.Languages) > 0 && !md.HasLanguage(md.L2) {
		diags.Errorf("secondary language %q is not declared in %q", md.L2, "languages")
	}
}

// SortedExtraKeys returns the Extra keys in ascending order for
// deterministic serialization.
func (m *Metadata) SortedExtraKeys() []string {
	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
