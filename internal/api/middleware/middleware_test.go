package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/ping", ok)
	r.POST("/echo", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		c.String(http.StatusOK, string(body))
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRecoveryReturns500(t *testing.T) {
	r := newEngine(Recovery())
	w := do(r, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestBodySizeLimitRejectsLargeContentLength(t *testing.T) {
	r := newEngine(BodySizeLimit(8))
	w := do(r, http.MethodPost, "/echo", "0123456789")
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}

	w = do(r, http.MethodPost, "/echo", "small")
	if w.Code != http.StatusOK || w.Body.String() != "small" {
		t.Fatalf("small body: status = %d body = %q", w.Code, w.Body.String())
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	r := newEngine(RateLimit(2, time.Hour))
	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/ping", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := do(r, http.MethodGet, "/ping", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestDeduplicatorRejectsRepeatedPost(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	defer d.Close()
	r := newEngine(d.Middleware())

	if w := do(r, http.MethodPost, "/echo", `{"a":1}`); w.Code != http.StatusOK {
		t.Fatalf("first: status = %d", w.Code)
	}
	w := do(r, http.MethodPost, "/echo", `{"a":1}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("repeat: status = %d, want 429", w.Code)
	}
	if w := do(r, http.MethodPost, "/echo", `{"a":2}`); w.Code != http.StatusOK {
		t.Fatalf("different body: status = %d", w.Code)
	}
	// GET 不去重
	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/ping", ""); w.Code != http.StatusOK {
			t.Fatalf("GET %d: status = %d", i, w.Code)
		}
	}
}

func TestDeduplicatorWindowExpires(t *testing.T) {
	d := NewDeduplicator(time.Second)
	defer d.Close()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	if d.seenRecently("k") {
		t.Fatal("first sighting reported as duplicate")
	}
	if !d.seenRecently("k") {
		t.Fatal("second sighting inside window not reported")
	}
	now = now.Add(2 * time.Second)
	if d.seenRecently("k") {
		t.Fatal("sighting after window reported as duplicate")
	}

	now = now.Add(2 * time.Second)
	d.prune()
	if len(d.seen) != 0 {
		t.Errorf("prune left %d entries", len(d.seen))
	}
}

func TestTimeoutWritesGatewayTimeout(t *testing.T) {
	r := newEngine(Timeout(20 * time.Millisecond))
	w := do(r, http.MethodGet, "/slow", "")
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", w.Code)
	}

	w = do(r, http.MethodGet, "/ping", "")
	if w.Code != http.StatusOK {
		t.Fatalf("fast handler: status = %d", w.Code)
	}
}
