package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(uploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTemplateHandler_CRUD(t *testing.T) {
	t.Parallel()

	tmpl, err := domain.NewTemplate("查体-神经系统", "", "双侧巴氏征阴性")
	require.NoError(t, err)

	var gotCategory string
	var gotInput service.TemplateInput
	templates := &mockTemplateService{
		ListFn: func(_ context.Context, category string) ([]*domain.Template, error) {
			gotCategory = category
			return []*domain.Template{tmpl}, nil
		},
		CreateFn: func(_ context.Context, in service.TemplateInput) (*domain.Template, error) {
			gotInput = in
			return tmpl, nil
		},
		UseFn: func(_ context.Context, id uuid.UUID) (int, error) {
			return 4, nil
		},
	}
	h := newTestRouter(RouterConfig{Templates: templates})

	rec := serve(t, h, http.MethodGet, "/api/templates?category=%E6%9F%A5%E4%BD%93-%E7%A5%9E%E7%BB%8F%E7%B3%BB%E7%BB%9F", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "查体-神经系统", gotCategory)

	rec = serve(t, h, http.MethodPost, "/api/templates", map[string]string{
		"category": "查体-神经系统",
		"content":  "双侧巴氏征阴性",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "双侧巴氏征阴性", gotInput.Content)

	rec = serve(t, h, http.MethodPost, "/api/templates", map[string]string{"category": "查体-神经系统"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid content: required field", errorMessage(t, rec))

	rec = serve(t, h, http.MethodPost, "/api/templates/"+tmpl.ID.String()+"/use", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var used UseTemplateResponse
	decodeBody(t, rec, &used)
	assert.Equal(t, 4, used.UsageCount)
}

func TestTemplateHandler_SystemTemplateIsForbidden(t *testing.T) {
	t.Parallel()

	templates := &mockTemplateService{
		UpdateFn: func(_ context.Context, id uuid.UUID, in service.TemplateInput) (*domain.Template, error) {
			return nil, service.NewServiceError("update_template", "cannot update", domain.ErrSystemTemplate)
		},
		DeleteFn: func(_ context.Context, id uuid.UUID) error {
			return service.NewServiceError("delete_template", "cannot delete", domain.ErrSystemTemplate)
		},
	}
	h := newTestRouter(RouterConfig{Templates: templates})
	path := "/api/templates/" + uuid.NewString()

	rec := serve(t, h, http.MethodPut, path, map[string]string{"category": "查体-一般情况", "content": "神志清楚"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "System templates cannot be modified", errorMessage(t, rec))
}

func TestTemplateHandler_ExtractPhrases(t *testing.T) {
	t.Parallel()

	extraction := &service.PhraseExtraction{
		Phrases: []generation.ClassifiedPhrase{
			{Content: "患者神志清楚，精神可", Category: "查体-一般情况"},
		},
		Preprocessed: 3,
	}

	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		wantCorpus string
		wantStatus int
	}{
		{
			name: "json body",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/templates/extract-phrases",
					strings.NewReader(`{"content":"患者神志清楚，精神可。"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantCorpus: "患者神志清楚，精神可。",
			wantStatus: http.StatusOK,
		},
		{
			name: "uploaded text file",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/templates/extract-phrases", "records.txt",
					[]byte("\xef\xbb\xbf患者神志清楚，精神可。"))
			},
			wantCorpus: "患者神志清楚，精神可。",
			wantStatus: http.StatusOK,
		},
		{
			name: "unsupported file",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/templates/extract-phrases", "records.pdf", []byte("%PDF-1.4"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotCorpus string
			templates := &mockTemplateService{
				ExtractFn: func(_ context.Context, corpus string) (*service.PhraseExtraction, error) {
					gotCorpus = corpus
					return extraction, nil
				},
			}
			h := newTestRouter(RouterConfig{Templates: templates})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.request(t))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCorpus, strings.TrimSpace(gotCorpus))
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ExtractPhrasesResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, 1, resp.TotalExtracted)
			assert.Equal(t, 3, resp.PreprocessedFrom)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestTemplateHandler_ExtractPhrases_EmptyCorpus(t *testing.T) {
	t.Parallel()

	jsonRequest := func(body string) func(t *testing.T) *http.Request {
		return func(t *testing.T) *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/templates/extract-phrases", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			return req
		}
	}

	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
	}{
		{name: "no content field", request: jsonRequest(`{}`)},
		{name: "blank content", request: jsonRequest(`{"content":"   \n"}`)},
		{
			name: "empty uploaded file",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/templates/extract-phrases", "records.txt", []byte(" \n"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			templates := &mockTemplateService{
				ExtractFn: func(_ context.Context, corpus string) (*service.PhraseExtraction, error) {
					called = true
					assert.Empty(t, strings.TrimSpace(corpus))
					return &service.PhraseExtraction{
						Phrases: []generation.ClassifiedPhrase{},
						Message: "未能从文档中提取到有效语句",
					}, nil
				},
			}
			h := newTestRouter(RouterConfig{Templates: templates})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.request(t))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, called)
			var resp ExtractPhrasesResponse
			decodeBody(t, rec, &resp)
			assert.NotNil(t, resp.Phrases)
			assert.Empty(t, resp.Phrases)
			assert.Zero(t, resp.TotalExtracted)
			assert.Equal(t, "未能从文档中提取到有效语句", resp.Message)
		})
	}
}

func TestTemplateHandler_ExtractPhrases_UploadTooLarge(t *testing.T) {
	t.Parallel()

	h := newTestRouter(RouterConfig{MaxUploadBytes: 64})
	req := multipartRequest(t, "/api/templates/extract-phrases", "records.txt",
		[]byte(strings.Repeat("患者神志清楚，精神可。", 50)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTemplateHandler_ExtractPhrases_ModelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not configured", generation.ErrInvalidConfig, http.StatusServiceUnavailable},
		{"blocked", generation.ErrContentBlocked, http.StatusUnprocessableEntity},
		{"unusable output", generation.ErrInvalidResponse, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			templates := &mockTemplateService{
				ExtractFn: func(_ context.Context, corpus string) (*service.PhraseExtraction, error) {
					return nil, service.NewServiceError("extract_phrases", "classification failed", tt.err)
				},
			}
			h := newTestRouter(RouterConfig{Templates: templates})

			rec := serve(t, h, http.MethodPost, "/api/templates/extract-phrases", map[string]string{"content": "神志清楚"})

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTemplateHandler_BatchCreate(t *testing.T) {
	t.Parallel()

	var gotItems []service.PhraseItem
	templates := &mockTemplateService{
		BatchFn: func(_ context.Context, items []service.PhraseItem) (int, error) {
			gotItems = items
			return len(items), nil
		},
	}
	h := newTestRouter(RouterConfig{Templates: templates})

	rec := serve(t, h, http.MethodPost, "/api/templates/batch", map[string]interface{}{
		"phrases": []map[string]string{
			{"content": "神志清楚", "category": "查体-一般情况"},
			{"content": "双下肢无水肿", "category": "查体-四肢"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, gotItems, 2)
	var resp BatchTemplatesResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Count)

	rec = serve(t, h, http.MethodPost, "/api/templates/batch", map[string]interface{}{"phrases": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
