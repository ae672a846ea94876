package dto

import (
	"encoding/json"
	"time"

	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	// Slug is derived from the title when empty.
	Slug          string            `json:"slug" validate:"omitempty,max=200"`
	Title         map[string]string `json:"title" validate:"required,min=1"`
	Excerpt       map[string]string `json:"excerpt"`
	CoverImageURL string            `json:"cover_image_url" validate:"omitempty,max=2048"`
}

type CreatePostResponse struct {
	Id   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}

type UpdatePostRequest struct {
	Id            uuid.UUID         `json:"-"`
	Slug          string            `json:"slug" validate:"required,max=200"`
	Title         map[string]string `json:"title" validate:"required,min=1"`
	Excerpt       map[string]string `json:"excerpt"`
	CoverImageURL string            `json:"cover_image_url" validate:"omitempty,max=2048"`
}

type UpdatePostResponse struct {
	Id   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}

type SaveContentRequest struct {
	Id       uuid.UUID       `json:"-"`
	Locale   string          `json:"-"`
	Document json.RawMessage `json:"document" validate:"required"`
}

type SaveContentResponse struct {
	Id        uuid.UUID          `json:"id"`
	Locale    string             `json:"locale"`
	Toc       []lexical.TocEntry `json:"toc"`
	UpdatedAt *time.Time         `json:"updated_at"`
}

type PostResponse struct {
	Id            uuid.UUID                     `json:"id"`
	Slug          string                        `json:"slug"`
	Title         map[string]string             `json:"title"`
	Excerpt       map[string]string             `json:"excerpt"`
	Content       map[string]json.RawMessage    `json:"content"`
	Toc           map[string][]lexical.TocEntry `json:"toc"`
	CoverImageURL string                        `json:"cover_image_url"`
	Status        string                        `json:"status"`
	PublishedAt   *time.Time                    `json:"published_at"`
	AuthorId      uuid.UUID                     `json:"author_id"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     *time.Time                    `json:"updated_at"`
}

type PostSummaryResponse struct {
	Id            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"cover_image_url"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

type ListPostsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=draft published"`
	Search   string `query:"q" validate:"omitempty,max=100"`
	Locale   string `query:"locale"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type ListPostsResponse struct {
	Items    []PostSummaryResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

type RenderedPostResponse struct {
	Slug          string             `json:"slug"`
	Locale        string             `json:"locale"`
	Title         string             `json:"title"`
	Excerpt       string             `json:"excerpt"`
	CoverImageURL string             `json:"cover_image_url"`
	PublishedAt   *time.Time         `json:"published_at"`
	Html          string             `json:"html"`
	Toc           []lexical.TocEntry `json:"toc"`
}

type PreviewRequest struct {
	Document json.RawMessage    `json:"document" validate:"required"`
	Toc      []lexical.TocEntry `json:"toc"`
}

type TocMismatch struct {
	Cursor   int               `json:"cursor"`
	Level    int               `json:"level"`
	Text     string            `json:"text"`
	Expected *lexical.TocEntry `json:"expected,omitempty"`
	Emitted  string            `json:"emitted"`
}

type PreviewResponse struct {
	Html       string             `json:"html"`
	Toc        []lexical.TocEntry `json:"toc"`
	Mismatches []TocMismatch      `json:"mismatches"`
}

type MarkdownExportResponse struct {
	Slug     string `json:"slug"`
	Locale   string `json:"locale"`
	Markdown string `json:"markdown"`
}

// TocReindexMessage asks the indexer to recompute one translation's TOC.
type TocReindexMessage struct {
	PostId uuid.UUID `json:"post_id"`
	Locale string    `json:"locale"`
}
