package ragserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/ctxutil"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

const DefaultBaseURL = "http://localhost:8000"

// Client talks to the external processing and chat service.
type Client interface {
	Process(ctx context.Context, req ProcessRequest) (*ProcessStatus, error)
	ProcessStatus(ctx context.Context, sourceID string) (*ProcessStatus, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

type Config struct {
	ProcessingURL string
	ChatURL       string
	// Timeout bounds each call. Zero leaves calls bounded only by ctx.
	Timeout time.Duration
}

type client struct {
	log           *logger.Logger
	processingURL string
	chatURL       string
	httpClient    *http.Client
}

func NewClient(log *logger.Logger, cfg Config) Client {
	processingURL := strings.TrimRight(strings.TrimSpace(cfg.ProcessingURL), "/")
	if processingURL == "" {
		processingURL = DefaultBaseURL
	}
	chatURL := strings.TrimRight(strings.TrimSpace(cfg.ChatURL), "/")
	if chatURL == "" {
		chatURL = processingURL
	}
	return &client{
		log:           log.With("client", "RAGServerClient"),
		processingURL: processingURL,
		chatURL:       chatURL,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) Process(ctx context.Context, req ProcessRequest) (*ProcessStatus, error) {
	var out ProcessStatus
	if err := c.do(ctx, "process", http.MethodPost, c.processingURL+"/api/process", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ProcessStatus(ctx context.Context, sourceID string) (*ProcessStatus, error) {
	var out ProcessStatus
	endpoint := c.processingURL + "/api/process/" + url.PathEscape(sourceID) + "/status"
	if err := c.do(ctx, "process_status", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []HistoryMessage{}
	}
	var out ChatResponse
	if err := c.do(ctx, "chat", http.MethodPost, c.chatURL+"/api/chat", req, &out); err != nil {
		return nil, err
	}
	out.normalize()
	return &out, nil
}

func (c *client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, "health", http.MethodGet, c.processingURL+"/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) do(ctx context.Context, op, method, endpoint string, body any, out any) error {
	ctx, span := observability.Tracer().Start(ctx, "ragserver."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", endpoint),
	)

	start := time.Now()
	outcome := "ok"
	defer func() {
		observability.Current().ObserveRAGRequest(op, outcome, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			outcome = "encode_error"
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		outcome = "request_error"
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-Id", td.RequestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "unavailable"
		span.RecordError(err)
		span.SetStatus(codes.Error, "unavailable")
		c.log.Warn("RAG server unreachable", append([]interface{}{"op", op, "url", endpoint, "error", err}, ctxutil.LogFields(ctx)...)...)
		return &UnavailableError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		outcome = "read_error"
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "status_" + strconv.Itoa(resp.StatusCode)
		statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
		span.SetStatus(codes.Error, outcome)
		c.log.Warn("RAG server returned error status",
			append([]interface{}{"op", op, "status", resp.StatusCode, "detail", statusErr.Detail()}, ctxutil.LogFields(ctx)...)...)
		return statusErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
