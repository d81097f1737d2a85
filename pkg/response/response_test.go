package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestError_WithAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewPermissionDenied("resource is outside your OFFENSE unit"))
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Kind != KindPermissionDenied {
		t.Errorf("expected kind %q, got %q", KindPermissionDenied, resp.Kind)
	}
	if resp.Message != "resource is outside your OFFENSE unit" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestError_BillingRestricted(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewBillingRestricted("READ_ONLY", "the account is read-only"))
	})

	if w.Code != http.StatusPaymentRequired {
		t.Errorf("expected status %d, got %d", http.StatusPaymentRequired, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Kind != KindBillingRestriction {
		t.Errorf("expected kind %q, got %q", KindBillingRestriction, resp.Kind)
	}

	// The current billing state rides along in Data so the client can render
	// a payment prompt.
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	if data["status"] != "READ_ONLY" {
		t.Errorf("expected status READ_ONLY, got %v", data["status"])
	}
}

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something went wrong"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
	if resp.Kind != KindInternal {
		t.Errorf("expected kind %q, got %q", KindInternal, resp.Kind)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantKind   string
	}{
		{"bad request", NewBadRequest("x"), http.StatusBadRequest, KindValidation},
		{"unauthorized", NewUnauthorized("x"), http.StatusUnauthorized, KindUnauthenticated},
		{"membership not found", NewMembershipNotFound("x"), http.StatusForbidden, KindMembershipNotFound},
		{"permission denied", NewPermissionDenied("x"), http.StatusForbidden, KindPermissionDenied},
		{"billing restricted", NewBillingRestricted("LOCKED", "x"), http.StatusPaymentRequired, KindBillingRestriction},
		{"not found", NewNotFound("x"), http.StatusNotFound, KindNotFound},
		{"conflict", NewConflict("x"), http.StatusConflict, KindConflict},
		{"server error", NewServerError("x"), http.StatusInternalServerError, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
		})
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	err := NewNotFound("team not found")
	if err.Error() != "team not found" {
		t.Errorf("expected 'team not found', got %q", err.Error())
	}
}
