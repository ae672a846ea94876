package service

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/repository/scope"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticPaths are the site pages that exist in every locale.
var staticPaths = []string{"", "/menu", "/blog"}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type ISitemapService interface {
	Sitemap(ctx context.Context) ([]byte, error)
	Robots() string
}

type sitemapService struct {
	uowFactory unitofwork.RepositoryFactory
	siteURL    string
}

func NewSitemapService(uowFactory unitofwork.RepositoryFactory, siteURL string) ISitemapService {
	return &sitemapService{
		uowFactory: uowFactory,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

func (s *sitemapService) Sitemap(ctx context.Context) ([]byte, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	posts, err := uow.BlogPostRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.PostStatusPublished)},
		specification.Scoped(scope.OrderByPublishedDesc),
	)
	if err != nil {
		return nil, err
	}

	set := urlSet{Xmlns: sitemapNamespace}
	for _, locale := range entity.SupportedLocales {
		for _, p := range staticPaths {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        s.siteURL + "/" + locale + p,
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
	}
	for _, post := range posts {
		lastMod := lastModified(post)
		for _, locale := range entity.SupportedLocales {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        s.siteURL + "/" + locale + "/blog/" + post.Slug,
				LastMod:    lastMod,
				ChangeFreq: "monthly",
				Priority:   "0.6",
			})
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func lastModified(post *entity.BlogPost) string {
	var t time.Time
	switch {
	case post.UpdatedAt != nil:
		t = *post.UpdatedAt
	case post.PublishedAt != nil:
		t = *post.PublishedAt
	default:
		t = post.CreatedAt
	}
	return t.UTC().Format("2006-01-02")
}

func (s *sitemapService) Robots() string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Disallow: /api/\n")
	sb.WriteString("Allow: /\n\n")
	sb.WriteString("Sitemap: " + s.siteURL + "/sitemap.xml\n")
	return sb.String()
}
