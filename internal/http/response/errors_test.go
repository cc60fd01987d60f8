package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ragdash-backend/internal/platform/apierr"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

func respond(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondAPIError(c, logger.Nop(), err)

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestRespondAPIError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantCode   string
		wantDetail string
	}{
		{
			name:       "bad request keeps message",
			err:        apierr.BadRequest("name_required", "Name is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Name is required",
			wantCode:   "name_required",
		},
		{
			name:       "internal is generic",
			err:        apierr.New(http.StatusInternalServerError, "internal_error", errors.New("pq: relation does not exist")),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgInternal,
			wantCode:   "internal_error",
		},
		{
			name:       "plain error is generic",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgInternal,
			wantCode:   "internal_error",
		},
		{
			name:       "unavailable carries details",
			err:        apierr.New(http.StatusServiceUnavailable, "chat_unavailable", errors.New("Chat server is not available.")).WithDetails("start it"),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Chat server is not available.",
			wantCode:   "chat_unavailable",
			wantDetail: "start it",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respond(t, tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, status)
			}
			if body.Error != tc.wantError || body.Code != tc.wantCode || body.Details != tc.wantDetail {
				t.Fatalf("body: %+v", body)
			}
		})
	}
}
