package converter

import "context"

// Extractor produces dialect markdown from ordered page-scan images,
// typically by calling an external vision/OCR service. The core never
// performs network calls itself; implementations live with the host.
type Extractor interface {
	Extract(ctx context.Context, scanPaths []string) (string, error)
}

// Enricher tags raw dialect markdown with language and field metadata,
// typically by calling an external LLM service.
type Enricher interface {
	Enrich(ctx context.Context, markdown string) (string, error)
}
