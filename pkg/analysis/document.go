package analysis

import (
	"time"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/pkg/prosemirror"

	"github.com/google/uuid"
)

// Document is the plain-text view of a page consumed by the analysis
// pipeline. It lives for the duration of one run and is never persisted.
type Document struct {
	Id        uuid.UUID
	Title     string
	Body      string
	SpaceId   uuid.UUID
	ParentId  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NormalizeDocuments converts raw page records into analysis documents.
// Body text comes from a depth-first walk of the structured content tree;
// pages with malformed content get an empty body instead of failing the run.
func NormalizeDocuments(pages []*entity.Page) []*Document {
	docs := make([]*Document, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, &Document{
			Id:        p.Id,
			Title:     p.Title,
			Body:      prosemirror.ExtractText(p.Content),
			SpaceId:   p.SpaceId,
			ParentId:  p.ParentPageId,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return docs
}

// fullText is the tokenization source for every lexical stage.
func (d *Document) fullText() string {
	return d.Title + " " + d.Body
}
