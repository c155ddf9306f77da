package parser

import (
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
)

// Registry keeps detectors in priority order per file type. The first
// match wins; nothing matching is ErrUnsupportedFormat, never a guess.
type Registry struct {
	statements map[models.FileType][]StatementParser
	requisites []RequisitesParser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{statements: make(map[models.FileType][]StatementParser)}
}

// RegisterStatement appends p at the lowest priority for its file type.
func (r *Registry) RegisterStatement(p StatementParser) {
	r.statements[p.FileType()] = append(r.statements[p.FileType()], p)
}

// RegisterRequisites appends p at the lowest requisites priority.
func (r *Registry) RegisterRequisites(p RequisitesParser) {
	r.requisites = append(r.requisites, p)
}

// Detect returns the first statement parser claiming content.
func (r *Registry) Detect(fileType models.FileType, content string) (StatementParser, error) {
	for _, p := range r.statements[fileType] {
		if p.CanParse(content) {
			return p, nil
		}
	}
	return nil, &parsererror.UnsupportedFormatError{
		FileType: string(fileType),
		Snippet:  parsererror.Snippet(content, 60),
	}
}

// DetectRequisites returns the first requisites parser claiming content, or
// nil. Requisites are optional, so no error.
func (r *Registry) DetectRequisites(content string) RequisitesParser {
	for _, p := range r.requisites {
		if p.CanParse(content) {
			return p
		}
	}
	return nil
}

// Statements lists the parsers registered for fileType in priority order.
func (r *Registry) Statements(fileType models.FileType) []StatementParser {
	out := make([]StatementParser, len(r.statements[fileType]))
	copy(out, r.statements[fileType])
	return out
}
