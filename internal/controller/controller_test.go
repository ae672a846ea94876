package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"
	"bistro-cms-be/pkg/editor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("6f1d2f0e-8c5a-4b8e-9a55-3f2b1c0d9e71")

// stubAuth admits requests carrying "Authorization: Bearer ok".
func stubAuth(ctx *fiber.Ctx) error {
	if ctx.Get("Authorization") != "Bearer ok" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}
	ctx.Locals(serverutils.LocalUserID, testUserID)
	return ctx.Next()
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	register(app.Group("/api"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}, authed bool) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer ok")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, data := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

type fakeBlogService struct {
	service.IBlogService
	created  *dto.CreatePostRequest
	authorId uuid.UUID
	saved    *dto.SaveContentRequest
	listReq  *dto.ListPostsRequest
	render   func(slug, locale string) (*dto.RenderedPostResponse, error)
}

func (f *fakeBlogService) Create(ctx context.Context, authorId uuid.UUID, req *dto.CreatePostRequest) (*dto.CreatePostResponse, error) {
	f.created, f.authorId = req, authorId
	return &dto.CreatePostResponse{Id: uuid.New(), Slug: "pho-bo"}, nil
}

func (f *fakeBlogService) SaveContent(ctx context.Context, req *dto.SaveContentRequest) (*dto.SaveContentResponse, error) {
	f.saved = req
	return &dto.SaveContentResponse{Id: req.Id, Locale: req.Locale}, nil
}

func (f *fakeBlogService) List(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error) {
	f.listReq = req
	return &dto.ListPostsResponse{Items: []dto.PostSummaryResponse{}, Page: 1, PageSize: 20}, nil
}

func (f *fakeBlogService) Render(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error) {
	return f.render(slug, locale)
}

func (f *fakeBlogService) ExportMarkdown(ctx context.Context, slug, locale string) (*dto.MarkdownExportResponse, error) {
	return &dto.MarkdownExportResponse{Slug: slug, Locale: locale, Markdown: "# Phở\n"}, nil
}

func TestBlogControllerAdminRoutes(t *testing.T) {
	blog := &fakeBlogService{}
	app := newTestApp(NewBlogController(blog, stubAuth).RegisterRoutes)

	resp, _ := doJSON(t, app, "POST", "/api/blog/v1/posts", dto.CreatePostRequest{Title: map[string]string{"vi": "Phở bò"}}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/blog/v1/posts", dto.CreatePostRequest{Title: map[string]string{"vi": "Phở bò"}}, true)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pho-bo", body["data"].(map[string]interface{})["slug"])
	assert.Equal(t, testUserID, blog.authorId)

	resp, body = doJSON(t, app, "POST", "/api/blog/v1/posts", map[string]interface{}{"slug": "x"}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation failed", body["message"])

	id := uuid.New()
	resp, _ = doJSON(t, app, "PUT", "/api/blog/v1/posts/"+id.String()+"/content/en",
		map[string]interface{}{"document": json.RawMessage(`{"root":{"type":"root","children":[]}}`)}, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, blog.saved)
	assert.Equal(t, id, blog.saved.Id)
	assert.Equal(t, "en", blog.saved.Locale)

	resp, body = doJSON(t, app, "PUT", "/api/blog/v1/posts/not-a-uuid/content/en", map[string]interface{}{"document": "{}"}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid id", body["message"])

	resp, _ = doJSON(t, app, "GET", "/api/blog/v1/posts?status=archived", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/blog/v1/posts?status=draft&page=2", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "draft", blog.listReq.Status)
	assert.Equal(t, 2, blog.listReq.Page)
}

func TestBlogControllerPublicRoutes(t *testing.T) {
	blog := &fakeBlogService{
		render: func(slug, locale string) (*dto.RenderedPostResponse, error) {
			if slug != "pho-bo" {
				return nil, service.ErrPostNotFound
			}
			return &dto.RenderedPostResponse{Slug: slug, Locale: locale, Html: `<h2 id="pho">Phở</h2>`}, nil
		},
	}
	app := newTestApp(NewBlogController(blog, stubAuth).RegisterRoutes)

	resp, body := doJSON(t, app, "GET", "/api/public/v1/posts/pho-bo?locale=en", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=60", resp.Header.Get("Cache-Control"))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "en", data["locale"])
	assert.Equal(t, `<h2 id="pho">Phở</h2>`, data["html"])

	resp, body = doJSON(t, app, "GET", "/api/public/v1/posts/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, _ = doJSON(t, app, "GET", "/api/public/v1/posts?status=draft", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "published", blog.listReq.Status, "public listing never shows drafts")

	req := httptest.NewRequest("GET", "/api/public/v1/posts/pho-bo/markdown?format=raw", nil)
	raw, err := app.Test(req)
	require.NoError(t, err)
	text, _ := io.ReadAll(raw.Body)
	assert.Equal(t, "# Phở\n", string(text))
	assert.Contains(t, raw.Header.Get("Content-Type"), "text/markdown")
}

type fakeMenuService struct {
	service.IMenuService
	reordered []uuid.UUID
	locale    string
	category  string
}

func (f *fakeMenuService) Reorder(ctx context.Context, req *dto.ReorderRequest) error {
	if len(req.Ids) == 1 {
		return service.ErrReorderMismatch
	}
	f.reordered = req.Ids
	return nil
}

func (f *fakeMenuService) ListActive(ctx context.Context, locale, category string) ([]dto.PublicMenuItemResponse, error) {
	f.locale, f.category = locale, category
	return []dto.PublicMenuItemResponse{{Name: "Phở bò", PriceVnd: 65000}}, nil
}

func TestMenuControllerRoutes(t *testing.T) {
	menu := &fakeMenuService{}
	app := newTestApp(NewMenuController(menu, stubAuth).RegisterRoutes)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"empty list fails validation", dto.ReorderRequest{}, http.StatusBadRequest},
		{"service rejects", dto.ReorderRequest{Ids: ids[:1]}, http.StatusBadRequest},
		{"ok", dto.ReorderRequest{Ids: ids}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, "PUT", "/api/menu/v1/items/reorder", tt.body, true)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
	assert.Equal(t, ids, menu.reordered)

	resp, body := doJSON(t, app, "GET", "/api/public/v1/menu?locale=en&category=pho", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", menu.locale)
	assert.Equal(t, "pho", menu.category)
	assert.Len(t, body["data"], 1)
}

type fakeUploadService struct {
	service.IUploadService
	files []editor.UploadFile
}

func (f *fakeUploadService) Upload(ctx context.Context, file editor.UploadFile) (editor.UploadResult, error) {
	f.files = append(f.files, file)
	return editor.UploadResult{URL: "/uploads/images/2026/10/x.png"}, nil
}

func (f *fakeUploadService) UploadBatch(ctx context.Context, files []editor.UploadFile) ([]editor.UploadResult, error) {
	if len(files) == 0 {
		return nil, service.ErrNoFiles
	}
	f.files = append(f.files, files...)
	return make([]editor.UploadResult, len(files)), nil
}

func TestUploadControllerRoutes(t *testing.T) {
	uploads := &fakeUploadService{}
	app := newTestApp(NewUploadController(uploads, stubAuth).RegisterRoutes)

	body, contentType := multipartBody(t, "file", map[string][]byte{"pho.png": []byte("png-bytes")})
	req := httptest.NewRequest("POST", "/api/upload/v1/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer ok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, uploads.files, 1)
	assert.Equal(t, "pho.png", uploads.files[0].Filename)
	assert.Equal(t, []byte("png-bytes"), uploads.files[0].Data)

	body, contentType = multipartBody(t, "files", map[string][]byte{"a.png": []byte("a"), "b.png": []byte("b")})
	req = httptest.NewRequest("POST", "/api/upload/v1/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer ok")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, uploads.files, 3)

	resp, _ = doJSON(t, app, "POST", "/api/upload/v1/image", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fakeEditorService struct {
	service.IEditorService
	dispatched []editor.Command
}

func (f *fakeEditorService) Open(ctx context.Context, userId uuid.UUID, req *dto.OpenEditorSessionRequest) (*dto.EditorSessionResponse, error) {
	return &dto.EditorSessionResponse{SessionId: uuid.New(), PostId: req.PostId, Locale: req.Locale}, nil
}

func (f *fakeEditorService) Dispatch(ctx context.Context, sessionId uuid.UUID, cmd editor.Command) (*dto.EditorSessionResponse, error) {
	if cmd.Name == "explode" {
		return nil, serverutils.BadRequest(editor.ErrUnknownCommand.Error())
	}
	f.dispatched = append(f.dispatched, cmd)
	return &dto.EditorSessionResponse{SessionId: sessionId}, nil
}

func (f *fakeEditorService) Undo(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error) {
	return nil, serverutils.Conflict(editor.ErrNothingToUndo.Error())
}

func (f *fakeEditorService) Close(ctx context.Context, sessionId uuid.UUID) error {
	return service.ErrSessionNotFound
}

func TestEditorControllerRoutes(t *testing.T) {
	eds := &fakeEditorService{}
	app := newTestApp(NewEditorController(eds, stubAuth).RegisterRoutes)
	session := uuid.New().String()

	resp, body := doJSON(t, app, "POST", "/api/editor/v1/sessions", dto.OpenEditorSessionRequest{PostId: uuid.New(), Locale: "vi"}, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "vi", body["data"].(map[string]interface{})["locale"])

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"command", "POST", "/api/editor/v1/sessions/" + session + "/commands", editor.Command{Name: editor.CmdInsertText, Payload: json.RawMessage(`{"text":"Phở"}`)}, http.StatusOK},
		{"command without name", "POST", "/api/editor/v1/sessions/" + session + "/commands", map[string]string{}, http.StatusBadRequest},
		{"unknown command", "POST", "/api/editor/v1/sessions/" + session + "/commands", editor.Command{Name: "explode"}, http.StatusBadRequest},
		{"nothing to undo", "POST", "/api/editor/v1/sessions/" + session + "/undo", nil, http.StatusConflict},
		{"close unknown", "DELETE", "/api/editor/v1/sessions/" + session, nil, http.StatusNotFound},
		{"open requires locale", "POST", "/api/editor/v1/sessions", map[string]string{"post_id": session}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
	require.Len(t, eds.dispatched, 1)
	assert.Equal(t, editor.CmdInsertText, eds.dispatched[0].Name)
}

type fakeAuthService struct {
	service.IAuthService
}

func (f *fakeAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Password != "nuoc-mam" {
		return nil, service.ErrInvalidCredentials
	}
	return &dto.LoginResponse{AccessToken: "signed"}, nil
}

func (f *fakeAuthService) Me(ctx context.Context, id uuid.UUID) (*dto.AdminDTO, error) {
	return &dto.AdminDTO{Id: id, Email: "chef@bistro.vn"}, nil
}

func TestAuthControllerRoutes(t *testing.T) {
	denyAll := func(ctx *fiber.Ctx) error { return serverutils.Forbidden("Insufficient role") }
	app := newTestApp(NewAuthController(&fakeAuthService{}, stubAuth, denyAll).RegisterRoutes)

	resp, body := doJSON(t, app, "POST", "/api/auth/v1/login", dto.LoginRequest{Email: "chef@bistro.vn", Password: "nuoc-mam"}, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "signed", body["data"].(map[string]interface{})["access_token"])

	resp, _ = doJSON(t, app, "POST", "/api/auth/v1/login", dto.LoginRequest{Email: "chef@bistro.vn", Password: "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/v1/login", dto.LoginRequest{Email: "not-an-email", Password: "x"}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/auth/v1/me", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID.String(), body["data"].(map[string]interface{})["id"])

	resp, _ = doJSON(t, app, "POST", "/api/auth/v1/admins", dto.CreateAdminRequest{}, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type fakeSitemapService struct{}

func (fakeSitemapService) Sitemap(ctx context.Context) ([]byte, error) {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`), nil
}

func (fakeSitemapService) Robots() string { return "User-agent: *\n" }

func TestSitemapControllerRoutes(t *testing.T) {
	app := fiber.New()
	NewSitemapController(fakeSitemapService{}).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/sitemap.xml", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	resp, err = app.Test(httptest.NewRequest("GET", "/robots.txt", nil))
	require.NoError(t, err)
	text, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "User-agent: *\n", string(text))
}
