package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
	"github.com/yungbote/ragdash-backend/internal/platform/dbctx"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
	"github.com/yungbote/ragdash-backend/internal/services"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.Nop()
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

type fakeIngestion struct {
	services.IngestionService
	got  *services.UploadInput
	body []byte
	err  error
}

func (f *fakeIngestion) Upload(_ dbctx.Context, in services.UploadInput) (*types.Source, error) {
	f.got = &in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &types.Source{ID: uuid.New(), ServiceID: in.ServiceID, Name: in.Filename, Status: types.SourceStatusPending}, nil
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write([]byte(content))
	}
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	svcID := uuid.New()
	cases := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		ingestErr  error
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, map[string]string{"serviceId": svcID.String()}, "data.csv", "a,b\n1,2\n")
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "no file",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, map[string]string{"serviceId": svcID.String()}, "", "")
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "No file provided",
		},
		{
			name: "no service id",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, nil, "data.csv", "x")
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Service ID is required",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "No file provided",
		},
		{
			name: "service rejects type",
			req: func(t *testing.T) *http.Request {
				return multipartUpload(t, map[string]string{"serviceId": svcID.String()}, "report.pdf", "x")
			},
			ingestErr:  apierr.BadRequest("unsupported_file_type", services.MsgUnsupportedFileType),
			wantStatus: http.StatusBadRequest,
			wantError:  services.MsgUnsupportedFileType,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ing := &fakeIngestion{err: tc.ingestErr}
			r := newEngine()
			r.POST("/api/upload", NewUploadHandler(newTestLogger(t), ing, 1<<20).Upload)
			rec := serve(r, tc.req(t))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantError != "" {
				if got := decodeError(t, rec)["error"]; got != tc.wantError {
					t.Fatalf("error: want=%q got=%q", tc.wantError, got)
				}
				return
			}
			if ing.got == nil || ing.got.ServiceID != svcID || ing.got.Filename != "data.csv" || string(ing.body) != "a,b\n1,2\n" {
				t.Fatalf("upload input: %+v body=%q", ing.got, ing.body)
			}
		})
	}
}

type fakeChunks struct {
	services.ChunkService
	got []services.ChunkUpdate
}

func (f *fakeChunks) BulkUpdate(_ dbctx.Context, _, _ uuid.UUID, updates []services.ChunkUpdate) (int, error) {
	f.got = updates
	return len(updates), nil
}

func TestChunkUpdateHandler(t *testing.T) {
	chunks := &fakeChunks{}
	r := newEngine()
	r.PUT("/api/services/:id/sources/:sourceId/chunks", NewChunkHandler(newTestLogger(t), chunks).Update)
	path := "/api/services/" + uuid.NewString() + "/sources/" + uuid.NewString() + "/chunks"

	rec := serve(r, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"changes":[]}`)))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec)["error"] != "Invalid request body - expected updates array" {
		t.Fatalf("missing updates: %d %s", rec.Code, rec.Body.String())
	}

	id := uuid.New()
	rec = serve(r, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"updates":[{"id":"`+id.String()+`","content":"new"}]}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool `json:"success"`
		Updated int  `json:"updated"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Success || body.Updated != 1 || len(chunks.got) != 1 || chunks.got[0].ID != id || chunks.got[0].Content != "new" {
		t.Fatalf("body=%+v got=%+v", body, chunks.got)
	}

	rec = serve(r, httptest.NewRequest(http.MethodPut, "/api/services/not-a-uuid/sources/"+uuid.NewString()+"/chunks", strings.NewReader(`{"updates":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid service id: %d", rec.Code)
	}
}

type fakeChat struct {
	services.ChatService
	got services.ChatInput
	err error
}

func (f *fakeChat) Send(_ dbctx.Context, _ uuid.UUID, in services.ChatInput) (*ragserver.ChatResponse, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &ragserver.ChatResponse{Response: "hi", SessionID: in.SessionID, ChunksUsed: []ragserver.ChunkInfo{}}, nil
}

func TestChatHandler(t *testing.T) {
	chat := &fakeChat{}
	r := newEngine()
	r.POST("/api/services/:id/chat", NewChatHandler(newTestLogger(t), chat).Send)
	path := "/api/services/" + uuid.NewString() + "/chat"

	rec := serve(r, httptest.NewRequest(http.MethodPost, path, strings.NewReader(
		`{"message":"hours?","sessionId":"s1","conversationHistory":[{"role":"user","content":"hi"}]}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	if chat.got.Message != "hours?" || chat.got.SessionID != "s1" || len(chat.got.ConversationHistory) != 1 {
		t.Fatalf("input: %+v", chat.got)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if chunks, ok := resp["chunks_used"].([]any); !ok || len(chunks) != 0 {
		t.Fatalf("chunks_used: %v", resp["chunks_used"])
	}
	if v, ok := resp["message_id"]; !ok || v != nil {
		t.Fatalf("message_id should be null: %v", resp)
	}

	chat.err = apierr.New(http.StatusServiceUnavailable, "chat_unavailable", errorMessage(services.MsgChatUnavailable)).WithDetails("start it")
	rec = serve(r, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"message":"x"}`)))
	body := decodeError(t, rec)
	if rec.Code != http.StatusServiceUnavailable || body["error"] != services.MsgChatUnavailable || body["details"] != "start it" {
		t.Fatalf("unavailable: %d %v", rec.Code, body)
	}
}

type fakeSources struct {
	services.SourceService
	deleted uuid.UUID
}

func (f *fakeSources) Delete(_ dbctx.Context, _, sourceID uuid.UUID) error {
	f.deleted = sourceID
	return nil
}

func TestSourceDeleteHandler(t *testing.T) {
	src := &fakeSources{}
	r := newEngine()
	r.DELETE("/api/services/:id/sources", NewSourceHandler(newTestLogger(t), src, nil).Delete)
	base := "/api/services/" + uuid.NewString() + "/sources"

	rec := serve(r, httptest.NewRequest(http.MethodDelete, base, nil))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec)["error"] != "Source ID is required" {
		t.Fatalf("missing sourceId: %d %s", rec.Code, rec.Body.String())
	}

	id := uuid.New()
	rec = serve(r, httptest.NewRequest(http.MethodDelete, base+"?sourceId="+id.String(), nil))
	if rec.Code != http.StatusOK || src.deleted != id || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
}

type fakeFeedback struct {
	services.FeedbackService
	got services.FeedbackInput
}

func (f *fakeFeedback) Record(_ dbctx.Context, serviceID uuid.UUID, in services.FeedbackInput) (*types.Feedback, error) {
	f.got = in
	return &types.Feedback{ID: uuid.New(), ServiceID: serviceID, ChatMessageID: in.ChatMessageID, FeedbackType: in.FeedbackType}, nil
}

func TestFeedbackCreateHandler(t *testing.T) {
	fb := &fakeFeedback{}
	r := newEngine()
	r.POST("/api/services/:id/feedback", NewFeedbackHandler(newTestLogger(t), fb).Create)
	path := "/api/services/" + uuid.NewString() + "/feedback"

	msgID := uuid.New()
	rec := serve(r, httptest.NewRequest(http.MethodPost, path, strings.NewReader(
		`{"chatMessageId":"`+msgID.String()+`","feedbackType":"correction","correctionMessage":"9 to 6"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	if fb.got.ChatMessageID != msgID || fb.got.FeedbackType != "correction" || fb.got.CorrectionMessage == nil || *fb.got.CorrectionMessage != "9 to 6" {
		t.Fatalf("input: %+v", fb.got)
	}

	rec = serve(r, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"chatMessageId":"nope","feedbackType":"like"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: %d", rec.Code)
	}
}

type fakeStyles struct {
	services.StyleService
	got services.UpdateStyleInput
}

func (f *fakeStyles) Update(_ dbctx.Context, _ uuid.UUID, in services.UpdateStyleInput) (*types.WritingStyle, error) {
	f.got = in
	return &types.WritingStyle{ID: in.ID}, nil
}

func TestStyleUpdateHandlerKeepsAbsentFields(t *testing.T) {
	st := &fakeStyles{}
	r := newEngine()
	r.PUT("/api/services/:id/styles", NewStyleHandler(newTestLogger(t), st).Update)

	id := uuid.New()
	rec := serve(r, httptest.NewRequest(http.MethodPut, "/api/services/"+uuid.NewString()+"/styles",
		strings.NewReader(`{"id":"`+id.String()+`","is_default":true}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	if st.got.ID != id || st.got.IsDefault == nil || !*st.got.IsDefault || st.got.Name != nil || st.got.Tone != nil {
		t.Fatalf("input: %+v", st.got)
	}
}

func TestHealthCheck(t *testing.T) {
	r := newEngine()
	h := NewHealthHandler(newTestLogger(t), nil)
	r.GET("/healthcheck", h.HealthCheck)
	r.GET("/healthcheck/rag", h.RAGHealth)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/healthcheck/rag", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("rag health without client: %d", rec.Code)
	}
}

type fakeTenants struct {
	services.TenantService
	called bool
}

func (f *fakeTenants) Create(_ dbctx.Context, in services.CreateServiceInput) (*types.Service, error) {
	f.called = true
	return &types.Service{ID: uuid.New(), Name: in.Name}, nil
}

func TestServiceCreateHandlerBindingErrors(t *testing.T) {
	tn := &fakeTenants{}
	r := newEngine()
	r.POST("/api/services", NewServiceHandler(newTestLogger(t), tn).Create)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"zero chunk size", `{"name":"Support","chunk_size":0}`, "Invalid request body: chunkSize must be gt 0"},
		{"negative overlap", `{"name":"Support","chunk_overlap":-1}`, "Invalid request body: chunkOverlap must be gte 0"},
		{"malformed json", `{"name":`, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
			}
			body := decodeError(t, rec)
			if body["error"] != tc.want || body["code"] != "invalid_request" {
				t.Fatalf("body: %+v", body)
			}
		})
	}
	if tn.called {
		t.Fatalf("service called on invalid body")
	}

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(`{"name":"Support","chunk_size":500}`)))
	if rec.Code != http.StatusCreated || !tn.called {
		t.Fatalf("valid create: %d %s", rec.Code, rec.Body.String())
	}
}

type fakeRAGHealth struct {
	ragserver.Client
	err error
}

func (f *fakeRAGHealth) Health(context.Context) (*ragserver.HealthStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ragserver.HealthStatus{Status: "healthy"}, nil
}

func TestRAGHealthHidesTransportError(t *testing.T) {
	rag := &fakeRAGHealth{err: &ragserver.UnavailableError{
		Op:  "health",
		URL: "http://10.0.0.7:8000/health",
		Err: errors.New("dial tcp 10.0.0.7:8000: connect: connection refused"),
	}}
	r := newEngine()
	r.GET("/healthcheck/rag", NewHealthHandler(newTestLogger(t), rag).RAGHealth)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthcheck/rag", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["status"] != "unavailable" || body["error"] != msgRAGUnavailable {
		t.Fatalf("body: %+v", body)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.7") {
		t.Fatalf("collaborator address leaked: %s", rec.Body.String())
	}

	rag.err = nil
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/healthcheck/rag", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthy rag: %d %s", rec.Code, rec.Body.String())
	}
}
