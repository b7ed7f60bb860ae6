package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CafeMaemi/models"
	"CafeMaemi/services"
	"CafeMaemi/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLanguage(t *testing.T) {
	r := gin.New()
	r.GET("/:lang", Language(), func(c *gin.Context) {
		c.String(http.StatusOK, string(RequestLanguage(c)))
	})

	tests := []struct {
		path         string
		wantStatus   int
		wantBody     string
		wantLocation string
	}{
		{"/en", http.StatusOK, "en", ""},
		{"/ja", http.StatusOK, "ja", ""},
		{"/fr", http.StatusFound, "", "/en"},
		{"/JA", http.StatusFound, "", "/en"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.wantStatus {
			t.Errorf("GET %s status = %d, want %d", tt.path, w.Code, tt.wantStatus)
		}
		if tt.wantBody != "" && w.Body.String() != tt.wantBody {
			t.Errorf("GET %s body = %q, want %q", tt.path, w.Body.String(), tt.wantBody)
		}
		if loc := w.Header().Get("Location"); loc != tt.wantLocation {
			t.Errorf("GET %s Location = %q, want %q", tt.path, loc, tt.wantLocation)
		}
	}
}

func TestRequestLanguage_OutsideLangRoute(t *testing.T) {
	r := gin.New()
	r.GET("/api", func(c *gin.Context) {
		c.String(http.StatusOK, string(RequestLanguage(c)))
	})

	tests := []struct {
		name   string
		cookie string
		accept string
		want   models.Language
	}{
		{"accept language", "", "ja-JP,ja;q=0.9", models.LanguageJA},
		{"cookie beats header", "en", "ja-JP", models.LanguageEN},
		{"nothing", "", "", models.LanguageEN},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		if tt.accept != "" {
			req.Header.Set("Accept-Language", tt.accept)
		}
		if tt.cookie != "" {
			req.AddCookie(&http.Cookie{Name: services.LanguageCookieName, Value: tt.cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := models.Language(w.Body.String()); got != tt.want {
			t.Errorf("%s: language = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAdminOnly(t *testing.T) {
	sessions := services.NewSessionService(services.CredentialChecker{Username: "admin", Password: "pw"}, "test-secret-0123456789", false)

	r := gin.New()
	r.Use(Session(sessions))
	r.GET("/admin/thing", AdminOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/thing", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without session status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/thing", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("with forged cookie status = %d, want 401", w.Code)
	}

	token, err := sessions.IssueToken()
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/admin/thing", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("with session status = %d, want 200", w.Code)
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		accept      string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "custom error",
			err:         utils.NewCustomError(http.StatusBadRequest, "bad category"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "bad category",
		},
		{
			name:        "field errors",
			err:         validation.Errors{"rating": errors.New("must be no greater than 5")},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed",
		},
		{
			name:       "bad credentials",
			err:        services.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "upload too large",
			err:         &services.UploadError{Path: "menu/x", Err: services.ErrAssetTooLarge},
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "Image is too large. Please choose a file under 2 MB.",
		},
		{
			name:        "upload too large in japanese",
			err:         &services.UploadError{Path: "menu/x", Err: services.ErrAssetTooLarge},
			accept:      "ja",
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "画像が大きすぎます。2MB以下のファイルを選択してください。",
		},
		{
			name:       "bad inline image",
			err:        &services.UploadError{Path: "menu/x", Err: services.ErrInvalidInline},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "blob store failure",
			err:         &services.UploadError{Path: "menu/x", Err: errors.New("connection reset")},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Image upload failed. Please try again.",
		},
		{
			name:       "not found",
			err:        &services.StoreError{Op: "delete", Collection: "menu", ID: "x", Err: services.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "permission denied",
			err:        &services.StoreError{Op: "update", Collection: "menu", ID: "x", Err: services.ErrPermissionDenied},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "already exists",
			err:        fmt.Errorf("create: %w", &services.StoreError{Op: "create", Collection: "menu", ID: "x", Err: services.ErrAlreadyExists}),
			wantStatus: http.StatusConflict,
		},
		{
			name:        "anything else",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandlerMiddleware(services.DefaultMaxUploadBytes))
			r.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body utils.Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %s", w.Body.String())
			}
			if body.StatusCode != tt.wantStatus {
				t.Errorf("body statusCode = %d, want %d", body.StatusCode, tt.wantStatus)
			}
			if tt.wantMessage != "" && body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestErrorHandlerMiddleware_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlerMiddleware(services.DefaultMaxUploadBytes))
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "done")
		_ = c.Error(errors.New("late failure"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "Internal") {
		t.Errorf("got %d %q, want the handler's response untouched", w.Code, w.Body.String())
	}
}
