// Package doccodec is the DocumentCodec collaborator: parses uploaded
// contract files into plain text for clause extraction, and renders
// generated documents (memos, summaries, compliance reports) to bytes
// (spec.md §1 lists document parsing/generation among external
// collaborators, left abstract). Implementations here are minimal:
// plain-text passthrough for parsing, Markdown rendering for generation.
package doccodec

import (
	"context"
	"fmt"
	"strings"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// DocumentCodec converts between raw file bytes and the text the
// orchestrator's agents reason over.
type DocumentCodec interface {
	// ExtractText returns the plain text content of an uploaded contract
	// file, given its filename (for extension-based dispatch) and bytes.
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)

	// RenderDocument renders a generated document to bytes given its kind
	// and content.
	RenderDocument(ctx context.Context, kind domain.GeneratedDocumentKind, title, content string) ([]byte, error)
}

// PlainTextCodec treats uploaded files as already-plain-text (or close
// enough: .txt and .md pass through verbatim) and renders generated
// documents as Markdown. A PDF/DOCX-aware implementation would live
// alongside this one behind the same interface; none is wired because no
// example in the corpus pulls in a PDF parsing library for this kind of
// pipeline.
type PlainTextCodec struct{}

// NewPlainTextCodec builds a PlainTextCodec.
func NewPlainTextCodec() *PlainTextCodec {
	return &PlainTextCodec{}
}

func (p *PlainTextCodec) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	return string(data), nil
}

func (p *PlainTextCodec) RenderDocument(ctx context.Context, kind domain.GeneratedDocumentKind, title, content string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_Kind: %s_\n\n%s\n", title, kind, content)
	return []byte(b.String()), nil
}

var _ DocumentCodec = (*PlainTextCodec)(nil)
