package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"repairorder/internal/config"
	"repairorder/internal/service"

	"github.com/gin-gonic/gin"
)

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		write   func(c *gin.Context)
		status  int
		message string
	}{
		{"BadRequest", func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest, "bad"},
		{"Unauthorized", func(c *gin.Context) { Unauthorized(c, msgTokenRequired) }, http.StatusUnauthorized, msgTokenRequired},
		{"Forbidden", func(c *gin.Context) { Forbidden(c, msgRoleNotFound) }, http.StatusForbidden, msgRoleNotFound},
		{"NotFound", func(c *gin.Context) { NotFound(c, "gone") }, http.StatusNotFound, "gone"},
		{"InternalError", func(c *gin.Context) { InternalError(c, msgInternalError) }, http.StatusInternalServerError, msgInternalError},
		{"InvalidPayload", InvalidPayload, http.StatusBadRequest, msgInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.write(c)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Success {
				t.Error("expected success to be false")
			}
			if response.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, response.Message)
			}
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		expose     bool
		err        error
		status     int
		message    string
		wantDetail string
	}{
		{"validation", false, &service.Error{Kind: service.KindValidation, Message: "store is required"}, http.StatusBadRequest, "store is required", ""},
		{"conflict", false, &service.Error{Kind: service.KindConflict, Message: "Username already exists"}, http.StatusBadRequest, "Username already exists", ""},
		{"auth", false, &service.Error{Kind: service.KindAuth, Message: "Invalid username or password"}, http.StatusUnauthorized, "Invalid username or password", ""},
		{"permission", false, &service.Error{Kind: service.KindPermission, Message: "nope"}, http.StatusForbidden, "nope", ""},
		{"not found", false, &service.Error{Kind: service.KindNotFound, Message: "Repair order not found"}, http.StatusNotFound, "Repair order not found", ""},
		{"store hidden", false, &service.Error{Kind: service.KindStore, Message: "Error fetching repair orders", Err: errors.New("dial tcp: refused")}, http.StatusInternalServerError, "Error fetching repair orders", ""},
		{"store exposed", true, &service.Error{Kind: service.KindStore, Message: "Error fetching repair orders", Err: errors.New("dial tcp: refused")}, http.StatusInternalServerError, "Error fetching repair orders", "dial tcp: refused"},
		{"plain error", true, errors.New("boom"), http.StatusInternalServerError, msgInternalError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HTTPHandler{cfg: config.Config{ExposeErrorDetails: tt.expose}}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.writeServiceError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var response APIError
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, response.Message)
			}
			if response.Error != tt.wantDetail {
				t.Errorf("expected error detail %q, got %q", tt.wantDetail, response.Error)
			}
		})
	}
}
