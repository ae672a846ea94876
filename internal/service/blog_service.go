package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/scope"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/events"
	"bistro-cms-be/pkg/lexical"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/google/uuid"
)

const (
	excerptRunes    = 160
	defaultPageSize = 20
)

// RenderCache holds rendered public posts.
type RenderCache interface {
	Get(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error)
	Set(ctx context.Context, slug, locale string, rendered *dto.RenderedPostResponse) error
	Invalidate(ctx context.Context, slug string, locales ...string) error
}

type IBlogService interface {
	Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error)
	Update(ctx context.Context, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error)
	SaveContent(ctx context.Context, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error)
	List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) error
	Unpublish(ctx context.Context, id uuid.UUID) error
	Render(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error)
	ExportMarkdown(ctx context.Context, slug, locale string) (*dto.MarkdownExportResponse, error)
	Preview(ctx context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error)
	LoadDocument(ctx context.Context, id uuid.UUID, locale string) (*lexical.Document, error)
}

type blogService struct {
	uowFactory     unitofwork.RepositoryFactory
	tocPublisher   IPublisherService
	eventPublisher events.Publisher
	cache          RenderCache
	logger         logger.ILogger
}

func NewBlogService(
	uowFactory unitofwork.RepositoryFactory,
	tocPublisher IPublisherService,
	eventPublisher events.Publisher,
	cache RenderCache,
	logger logger.ILogger,
) IBlogService {
	return &blogService{
		uowFactory:     uowFactory,
		tocPublisher:   tocPublisher,
		eventPublisher: eventPublisher,
		cache:          cache,
		logger:         logger,
	}
}

func checkLocales(texts ...map[string]string) error {
	for _, t := range texts {
		for locale := range t {
			if !entity.IsSupportedLocale(locale) {
				return ErrUnsupportedLocale
			}
		}
	}
	return nil
}

func (s *blogService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error) {
	if err := checkLocales(req.Title, req.Excerpt); err != nil {
		return nil, err
	}
	title := entity.LocalizedText(req.Title).Clone()

	slug := req.Slug
	if slug == "" {
		slug = title.Get(entity.DefaultLocale)
	}
	slug = lexical.Slugify(slug)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.ensureSlugFree(ctx, uow, slug, uuid.Nil); err != nil {
		return nil, err
	}

	post := entity.BlogPost{
		Id:            uuid.New(),
		Slug:          slug,
		Title:         title,
		Excerpt:       entity.LocalizedText(req.Excerpt).Clone(),
		Content:       map[string]json.RawMessage{},
		Toc:           map[string][]lexical.TocEntry{},
		CoverImageURL: req.CoverImageURL,
		Status:        entity.PostStatusDraft,
		AuthorId:      authorId,
		CreatedAt:     time.Now(),
	}
	if err := uow.BlogPostRepository().Create(ctx, &post); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.publish(ctx, events.PostCreated, post.Id, post.Slug, nil)
	return &dto.CreatePostResponse{Id: post.Id, Slug: post.Slug}, nil
}

// ensureSlugFree includes soft deleted rows; the unique index does too.
func (s *blogService) ensureSlugFree(ctx context.Context, uow unitofwork.UnitOfWork, slug string, exclude uuid.UUID) error {
	specs := []specification.Specification{
		specification.Scoped(scope.WithSoftDelete),
		specification.BySlug{Slug: slug},
	}
	if exclude != uuid.Nil {
		specs = append(specs, specification.ExcludeID{ID: exclude})
	}
	n, err := uow.BlogPostRepository().Count(ctx, specs...)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (s *blogService) findPost(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.BlogPost, error) {
	post, err := uow.BlogPostRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *blogService) Update(ctx context.Context, req *dto.UpdatePostRequest) (*dto.UpdatePostResponse, error) {
	if err := checkLocales(req.Title, req.Excerpt); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	oldSlug := post.Slug
	slug := lexical.Slugify(req.Slug)
	if slug != oldSlug {
		if err := s.ensureSlugFree(ctx, uow, slug, post.Id); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	post.Slug = slug
	post.Title = entity.LocalizedText(req.Title).Clone()
	post.Excerpt = entity.LocalizedText(req.Excerpt).Clone()
	post.CoverImageURL = req.CoverImageURL
	post.UpdatedAt = &now

	if err := uow.BlogPostRepository().Update(ctx, post); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.invalidate(ctx, oldSlug)
	if slug != oldSlug {
		s.invalidate(ctx, slug)
	}
	s.publish(ctx, events.PostUpdated, post.Id, post.Slug, map[string]interface{}{"previous_slug": oldSlug})

	return &dto.UpdatePostResponse{Id: post.Id, Slug: post.Slug}, nil
}

// SaveContent stores one translation's editor state. The TOC is recomputed
// by the indexer; the response carries the headings it will index.
func (s *blogService) SaveContent(ctx context.Context, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error) {
	if !entity.IsSupportedLocale(req.Locale) {
		return nil, ErrUnsupportedLocale
	}
	doc, err := lexical.ParseDocument(req.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if post.Content == nil {
		post.Content = map[string]json.RawMessage{}
	}
	post.Content[req.Locale] = raw
	if post.Excerpt == nil {
		post.Excerpt = entity.LocalizedText{}
	}
	if post.Excerpt[req.Locale] == "" {
		post.Excerpt[req.Locale] = lexical.Excerpt(doc, excerptRunes)
	}
	post.UpdatedAt = &now

	if err := uow.BlogPostRepository().Update(ctx, post); err != nil {
		return nil, err
	}

	toc := lexical.ExtractHeadings(doc)
	s.enqueueReindex(ctx, uow, post.Id, req.Locale, toc)
	// Other locales may be falling back to this translation.
	s.invalidate(ctx, post.Slug)
	s.publish(ctx, events.PostContentSaved, post.Id, post.Slug, map[string]interface{}{"locale": req.Locale})

	return &dto.SaveContentResponse{
		Id:        post.Id,
		Locale:    req.Locale,
		Toc:       toc,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

// enqueueReindex hands the TOC to the indexer. If the queue refuses the
// message the TOC is written inline.
func (s *blogService) enqueueReindex(ctx context.Context, uow unitofwork.UnitOfWork, postId uuid.UUID, locale string, toc []lexical.TocEntry) {
	msg, _ := json.Marshal(dto.TocReindexMessage{PostId: postId, Locale: locale})
	err := s.tocPublisher.Publish(ctx, msg)
	if err == nil {
		return
	}

	s.logger.Warn("BlogService", "TOC reindex enqueue failed, writing inline", map[string]interface{}{
		"post_id": postId.String(),
		"locale":  locale,
		"error":   err.Error(),
	})
	if err := uow.BlogPostRepository().UpdateToc(ctx, postId, locale, toc); err != nil {
		s.logger.Error("BlogService", "Inline TOC update failed", map[string]interface{}{
			"post_id": postId.String(),
			"error":   err,
		})
	}
}

func (s *blogService) Show(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	return &dto.PostResponse{
		Id:            post.Id,
		Slug:          post.Slug,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		Toc:           post.Toc,
		CoverImageURL: post.CoverImageURL,
		Status:        string(post.Status),
		PublishedAt:   post.PublishedAt,
		AuthorId:      post.AuthorId,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}, nil
}

func (s *blogService) List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error) {
	locale := req.Locale
	if locale == "" {
		locale = entity.DefaultLocale
	}
	if !entity.IsSupportedLocale(locale) {
		return nil, ErrUnsupportedLocale
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var filters []specification.Specification
	if req.Status != "" {
		filters = append(filters, specification.ByStatus{Status: req.Status})
	}
	if req.Search != "" {
		filters = append(filters, specification.PostSearchQuery{Query: req.Search})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.BlogPostRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.Scoped(scope.OrderByPublishedDesc),
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	posts, err := uow.BlogPostRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PostSummaryResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, dto.PostSummaryResponse{
			Id:            p.Id,
			Slug:          p.Slug,
			Title:         p.Title.Get(locale),
			Excerpt:       p.Excerpt.Get(locale),
			CoverImageURL: p.CoverImageURL,
			Status:        string(p.Status),
			PublishedAt:   p.PublishedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}

	return &dto.ListPostsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *blogService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, id)
	if err != nil {
		return err
	}
	if err := uow.BlogPostRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, post.Slug)
	s.publish(ctx, events.PostDeleted, post.Id, post.Slug, nil)
	return nil
}

func (s *blogService) Publish(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, entity.PostStatusPublished)
}

func (s *blogService) Unpublish(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, entity.PostStatusDraft)
}

func (s *blogService) setStatus(ctx context.Context, id uuid.UUID, status entity.PostStatus) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, id)
	if err != nil {
		return err
	}
	if post.Status == status {
		return nil
	}

	now := time.Now()
	post.Status = status
	post.UpdatedAt = &now
	// The first publication date sticks across unpublish/publish cycles.
	if status == entity.PostStatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	if err := uow.BlogPostRepository().Update(ctx, post); err != nil {
		return err
	}

	s.invalidate(ctx, post.Slug)
	eventType := events.PostUnpublished
	if status == entity.PostStatusPublished {
		eventType = events.PostPublished
	}
	s.publish(ctx, eventType, post.Id, post.Slug, nil)
	return nil
}

// Render returns the public HTML of a published post translation. A missing
// translation falls back to the default locale's content.
func (s *blogService) Render(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error) {
	if !entity.IsSupportedLocale(locale) {
		return nil, ErrUnsupportedLocale
	}

	if cached, err := s.cache.Get(ctx, slug, locale); err != nil {
		s.logger.Warn("BlogService", "Render cache read failed", map[string]interface{}{"slug": slug, "error": err.Error()})
	} else if cached != nil {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.BlogPostRepository().FindOne(ctx,
		specification.BySlug{Slug: slug},
		specification.ByStatus{Status: string(entity.PostStatusPublished)},
	)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	contentLocale := locale
	if len(post.Content[contentLocale]) == 0 {
		contentLocale = entity.DefaultLocale
	}

	html, toc := s.renderDocument(post.Content[contentLocale], post.Toc[contentLocale], contentLocale, map[string]interface{}{
		"slug":   slug,
		"locale": contentLocale,
	})

	out := &dto.RenderedPostResponse{
		Slug:          post.Slug,
		Locale:        locale,
		Title:         post.Title.Get(locale),
		Excerpt:       post.Excerpt.Get(locale),
		CoverImageURL: post.CoverImageURL,
		PublishedAt:   post.PublishedAt,
		Html:          html,
		Toc:           toc,
	}

	if err := s.cache.Set(ctx, slug, locale, out); err != nil {
		s.logger.Warn("BlogService", "Render cache write failed", map[string]interface{}{"slug": slug, "error": err.Error()})
	}
	return out, nil
}

// renderDocument applies the stored TOC when there is one and extracts it
// otherwise. Broken documents render to nothing.
func (s *blogService) renderDocument(raw json.RawMessage, stored []lexical.TocEntry, locale string, logDetails map[string]interface{}) (string, []lexical.TocEntry) {
	if len(raw) == 0 {
		return "", []lexical.TocEntry{}
	}
	doc, err := lexical.ParseDocument(raw)
	if err != nil {
		s.logger.Warn("BlogService", "Stored document is not valid", map[string]interface{}{
			"details": logDetails,
			"error":   err.Error(),
		})
		return "", []lexical.TocEntry{}
	}

	var toc []lexical.TocEntry
	if len(stored) > 0 {
		toc = lexical.NormalizeTOC(stored)
	} else {
		toc = lexical.ExtractHeadings(doc)
	}

	fragment := lexical.Render(doc, lexical.RenderOptions{
		TOC:    toc,
		Locale: locale,
		OnMismatch: func(m lexical.Mismatch) {
			s.logger.Warn("BlogService", "Heading does not match TOC", mismatchDetails(m, logDetails))
		},
	})
	return fragment.HTML(), toc
}

func mismatchDetails(m lexical.Mismatch, base map[string]interface{}) map[string]interface{} {
	details := map[string]interface{}{
		"cursor":  m.Cursor,
		"level":   m.Level,
		"text":    m.Text,
		"emitted": m.Emitted,
	}
	if m.Entry != nil {
		details["expected_id"] = m.Entry.ID
		details["expected_text"] = m.Entry.Text
	}
	for k, v := range base {
		details[k] = v
	}
	return details
}

func (s *blogService) ExportMarkdown(ctx context.Context, slug, locale string) (*dto.MarkdownExportResponse, error) {
	rendered, err := s.Render(ctx, slug, locale)
	if err != nil {
		return nil, err
	}

	body, err := htmltomarkdown.ConvertString(rendered.Html)
	if err != nil {
		return nil, fmt.Errorf("failed to convert post to markdown: %w", err)
	}

	markdown := body
	if rendered.Title != "" {
		markdown = "# " + rendered.Title + "\n\n" + body
	}
	return &dto.MarkdownExportResponse{Slug: rendered.Slug, Locale: rendered.Locale, Markdown: markdown}, nil
}

// Preview renders an unsaved document with the same TOC rule as Render and
// returns every mismatch instead of logging it.
func (s *blogService) Preview(ctx context.Context, req *dto.PreviewRequest) (*dto.PreviewResponse, error) {
	doc, err := lexical.ParseDocument(req.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var toc []lexical.TocEntry
	if len(req.Toc) > 0 {
		toc = lexical.NormalizeTOC(req.Toc)
	} else {
		toc = lexical.ExtractHeadings(doc)
	}

	mismatches := make([]dto.TocMismatch, 0)
	fragment := lexical.Render(doc, lexical.RenderOptions{
		TOC: toc,
		OnMismatch: func(m lexical.Mismatch) {
			mismatches = append(mismatches, dto.TocMismatch{
				Cursor:   m.Cursor,
				Level:    m.Level,
				Text:     m.Text,
				Expected: m.Entry,
				Emitted:  m.Emitted,
			})
		},
	})

	return &dto.PreviewResponse{Html: fragment.HTML(), Toc: toc, Mismatches: mismatches}, nil
}

// LoadDocument returns the stored editor state of a translation, or an empty
// document when there is none yet.
func (s *blogService) LoadDocument(ctx context.Context, id uuid.UUID, locale string) (*lexical.Document, error) {
	if !entity.IsSupportedLocale(locale) {
		return nil, ErrUnsupportedLocale
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	post, err := s.findPost(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	doc := lexical.ParseContent(string(post.Content[locale]))
	if doc == nil {
		return lexical.NewEmptyDocument(), nil
	}
	return doc, nil
}

func (s *blogService) invalidate(ctx context.Context, slug string, locales ...string) {
	if len(locales) == 0 {
		locales = entity.SupportedLocales
	}
	if err := s.cache.Invalidate(ctx, slug, locales...); err != nil {
		s.logger.Warn("BlogService", "Render cache invalidation failed", map[string]interface{}{"slug": slug, "error": err.Error()})
	}
}

func (s *blogService) publish(ctx context.Context, eventType string, postId uuid.UUID, slug string, extra map[string]interface{}) {
	data := map[string]interface{}{
		"post_id": postId.String(),
		"slug":    slug,
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("BlogService", "Failed to publish event", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}
