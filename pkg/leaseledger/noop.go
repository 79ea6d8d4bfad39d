package leaseledger

import "context"

// NoopExtractor is a no-operation implementation of Extractor.
// Useful when documents are registered with extraction output already in
// hand, or for testing.
type NoopExtractor struct{}

// NewNoopExtractor creates a new no-operation extractor
func NewNoopExtractor() Extractor {
	return &NoopExtractor{}
}

// ProcessDocument returns an empty extraction result
func (n *NoopExtractor) ProcessDocument(ctx context.Context, fileRef string) (*ExtractionResult, error) {
	return &ExtractionResult{Data: map[string]any{}}, nil
}
