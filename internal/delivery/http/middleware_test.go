package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "https://menu.campus.edu",
			allowedOrigins: []string{"https://menu.campus.edu"},
			want:           true,
		},
		{
			name:           "wildcard port match",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://menu.campus.edu",
			allowedOrigins: []string{"http://localhost:*", "https://menu.campus.edu"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{
			name:       "allowed origin - GET request",
			origin:     "http://localhost:3000",
			method:     "GET",
			wantStatus: http.StatusOK,
			wantCORS:   true,
		},
		{
			name:       "allowed origin - OPTIONS request",
			origin:     "http://localhost:3000",
			method:     "OPTIONS",
			wantStatus: http.StatusNoContent,
			wantCORS:   true,
		},
		{
			name:       "disallowed origin",
			origin:     "http://evil.com",
			method:     "GET",
			wantStatus: http.StatusOK,
			wantCORS:   false,
		},
		{
			name:       "no origin header",
			method:     "GET",
			wantStatus: http.StatusOK,
			wantCORS:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:*"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
					t.Errorf("Access-Control-Allow-Credentials not set to true")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set, got %s", corsHeader)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	send := func(remoteAddr string) int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := send("10.0.0.1:1001"); code != http.StatusOK {
		t.Fatalf("second request status = %d, want 200", code)
	}
	if code := send("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
}

func TestIPLimiter_EvictsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(60)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.get("10.0.0.1")
	now = now.Add(limiterIdleTTL / 2)
	l.get("10.0.0.2")
	if len(l.buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(l.buckets))
	}

	// 10.0.0.1 is now idle past the TTL, 10.0.0.2 is not.
	now = now.Add(limiterIdleTTL / 2)
	l.get("10.0.0.3")
	if len(l.buckets) != 2 {
		t.Fatalf("buckets after sweep = %d, want 2", len(l.buckets))
	}
	if _, ok := l.buckets["10.0.0.1"]; ok {
		t.Errorf("idle bucket for 10.0.0.1 was not evicted")
	}
	if _, ok := l.buckets["10.0.0.2"]; !ok {
		t.Errorf("active bucket for 10.0.0.2 was evicted")
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(0))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
}
