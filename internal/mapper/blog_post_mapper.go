package mapper

import (
	"encoding/json"
	"time"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/model"
	"bistro-cms-be/pkg/lexical"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPostMapper struct{}

func NewBlogPostMapper() *BlogPostMapper {
	return &BlogPostMapper{}
}

func (m *BlogPostMapper) ToEntity(p *model.BlogPost) *entity.BlogPost {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	content := p.ContentI18n.Data()
	if content == nil {
		content = map[string]json.RawMessage{}
	}
	toc := p.TocI18n.Data()
	if toc == nil {
		toc = map[string][]lexical.TocEntry{}
	}

	return &entity.BlogPost{
		Id:            p.Id,
		Slug:          p.Slug,
		Title:         entity.LocalizedText(p.TitleI18n.Data()).Clone(),
		Excerpt:       entity.LocalizedText(p.ExcerptI18n.Data()).Clone(),
		Content:       content,
		Toc:           toc,
		CoverImageURL: p.CoverImageURL,
		Status:        entity.PostStatus(p.Status),
		PublishedAt:   p.PublishedAt,
		AuthorId:      p.AuthorId,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     p.DeletedAt.Valid,
	}
}

func (m *BlogPostMapper) ToModel(p *entity.BlogPost) *model.BlogPost {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.BlogPost{
		Id:            p.Id,
		Slug:          p.Slug,
		TitleI18n:     datatypes.NewJSONType(map[string]string(p.Title.Clone())),
		ExcerptI18n:   datatypes.NewJSONType(map[string]string(p.Excerpt.Clone())),
		ContentI18n:   datatypes.NewJSONType(p.Content),
		TocI18n:       datatypes.NewJSONType(p.Toc),
		CoverImageURL: p.CoverImageURL,
		Status:        string(p.Status),
		PublishedAt:   p.PublishedAt,
		AuthorId:      p.AuthorId,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *BlogPostMapper) ToEntities(posts []*model.BlogPost) []*entity.BlogPost {
	entities := make([]*entity.BlogPost, len(posts))
	for i, p := range posts {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
