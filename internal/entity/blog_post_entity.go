package entity

import (
	"encoding/json"
	"time"

	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

type BlogPost struct {
	Id            uuid.UUID
	Slug          string
	Title         LocalizedText
	Excerpt       LocalizedText
	Content       map[string]json.RawMessage // locale -> Lexical editor state
	Toc           map[string][]lexical.TocEntry
	CoverImageURL string
	Status        PostStatus
	PublishedAt   *time.Time
	AuthorId      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}
