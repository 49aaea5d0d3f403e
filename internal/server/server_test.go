package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	numfmt "github.com/goliatone/go-numfmt"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	cfg, err := numfmt.NewConfig(
		numfmt.WithDefaultLocale("en-US"),
		numfmt.WithFormats(numfmt.Formats{
			"currency":  {Style: numfmt.StyleCurrency},
			"currency2": {Style: numfmt.StyleCurrency, Currency: "USD", MinimumFractionDigits: numfmt.Int(3)},
		}),
	)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	resolver, err := cfg.BuildResolver()
	if err != nil {
		t.Fatalf("BuildResolver: %v", err)
	}
	catalog, err := cfg.LocaleCatalog()
	if err != nil {
		t.Fatalf("LocaleCatalog: %v", err)
	}

	srv, err := New(resolver, append([]Option{WithCatalog(catalog)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func do(t *testing.T, srv http.Handler, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v (%s)", target, err, rec.Body.String())
		}
	}
	return rec, body
}

func TestFormatEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		header     http.Header
		wantStatus int
		wantResult string
		wantLocale string
		wantCode   string
	}{
		{name: "default locale", target: "/format?value=1000", wantStatus: http.StatusOK, wantResult: "1,000", wantLocale: "en-US"},
		{name: "query locale", target: "/format?value=40000.004&locale=de-de", wantStatus: http.StatusOK, wantResult: "40.000,004", wantLocale: "de-DE"},
		{name: "preset in path", target: "/format/currency2?value=1", wantStatus: http.StatusOK, wantResult: "$1.000"},
		{name: "inline override", target: "/format?value=1&format=currency2&minimumFractionDigits=0", wantStatus: http.StatusOK, wantResult: "$1"},
		{name: "preset completed by query", target: "/format/currency?value=40000&currency=eur", wantStatus: http.StatusOK, wantResult: "€40,000.00"},
		{
			name: "accept-language", target: "/format?value=1000",
			header:     http.Header{"Accept-Language": {"pt-BR,pt;q=0.9,en;q=0.5"}},
			wantStatus: http.StatusOK, wantResult: "1.000", wantLocale: "pt-BR",
		},
		{
			name: "query locale beats header", target: "/format?value=1000&locale=en",
			header:     http.Header{"Accept-Language": {"de"}},
			wantStatus: http.StatusOK, wantResult: "1,000", wantLocale: "en",
		},
		{name: "allowEmpty", target: "/format?allowEmpty=true", wantStatus: http.StatusOK, wantResult: ""},
		{name: "missing value", target: "/format", wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "bad value", target: "/format?value=ten", wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "unknown parameter", target: "/format?value=1&precision=2", wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "formatter failure", target: "/format?value=1&style=currency", wantStatus: http.StatusUnprocessableEntity, wantCode: "format_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, srv, tt.target, tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if body["code"] != tt.wantCode {
					t.Fatalf("code = %v want %s", body["code"], tt.wantCode)
				}
				return
			}
			if body["result"] != tt.wantResult {
				t.Fatalf("result = %v want %q", body["result"], tt.wantResult)
			}
			if tt.wantLocale != "" && body["locale"] != tt.wantLocale {
				t.Fatalf("locale = %v want %q", body["locale"], tt.wantLocale)
			}
		})
	}
}

func TestResolveEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, "/resolve?format=currency2&currency=EUR&locale=fr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if body["preset_found"] != true || body["locale_source"] != "request" {
		t.Fatalf("unexpected resolution %v", body)
	}
	opts, ok := body["options"].(map[string]any)
	if !ok {
		t.Fatalf("options = %T", body["options"])
	}
	if opts["currency"] != "EUR" || opts["style"] != "currency" || opts["minimumFractionDigits"] != float64(3) {
		t.Fatalf("options = %v", opts)
	}

	_, body = do(t, srv, "/resolve?format=nope", nil)
	if body["preset_found"] != false {
		t.Fatalf("unknown preset should resolve leniently: %v", body)
	}
}

func TestFormatsAndLocalesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, "/formats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("formats status = %d", rec.Code)
	}
	if _, ok := body["currency2"]; !ok {
		t.Fatalf("formats = %v", body)
	}

	rec, body = do(t, srv, "/locales", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("locales status = %d", rec.Code)
	}
	if body["default_locale"] != "en-US" {
		t.Fatalf("default_locale = %v", body["default_locale"])
	}
	if list, ok := body["locales"].([]any); !ok || len(list) == 0 {
		t.Fatalf("locales = %v", body["locales"])
	}

	rec, body = do(t, srv, "/locales/de", nil)
	if rec.Code != http.StatusOK || body["decimal"] != "," {
		t.Fatalf("locale de = %d %v", rec.Code, body)
	}

	rec, body = do(t, srv, "/locales/zz", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "unknown_locale" {
		t.Fatalf("locale zz = %d %v", rec.Code, body)
	}

	rec, body = do(t, srv, "/nowhere", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("unknown route = %d %v", rec.Code, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, WithMetrics(reg))

	rec, body := do(t, srv, "/healthz", nil)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", rec.Code, body)
	}
	do(t, srv, "/format?value=1", nil)

	rec, _ = do(t, srv, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	out := rec.Body.String()
	if !strings.Contains(out, `numfmt_http_requests_total{method="GET",path="/format",status="200"} 1`) {
		t.Fatalf("metrics output missing request counter:\n%s", out)
	}
}

func TestStrictServer(t *testing.T) {
	cfg, err := numfmt.NewConfig(numfmt.WithStrictFormats())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	resolver, err := cfg.BuildResolver()
	if err != nil {
		t.Fatalf("BuildResolver: %v", err)
	}
	srv, err := New(resolver)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec, body := do(t, srv, "/format/missing?value=1", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "unknown_format" {
		t.Fatalf("strict unknown preset = %d %v", rec.Code, body)
	}

	rec, body = do(t, srv, "/format/missing?allowEmpty=true", nil)
	if rec.Code != http.StatusOK || body["result"] != "" || body["format"] != "missing" {
		t.Fatalf("strict allowEmpty = %d %v", rec.Code, body)
	}

	rec, _ = do(t, srv, "/locales", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("locales without catalog = %d", rec.Code)
	}
}

func TestNewRequiresResolver(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error without resolver")
	}
}
