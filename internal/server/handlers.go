package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	numfmt "github.com/goliatone/go-numfmt"
)

// Query parameters that are not formatting options.
const (
	paramValue      = "value"
	paramFormat     = "format"
	paramLocale     = "locale"
	paramAllowEmpty = "allowEmpty"
)

type formatResponse struct {
	Result string `json:"result"`
	Format string `json:"format,omitempty"`
	Locale string `json:"locale,omitempty"`
}

type resolveResponse struct {
	Format       string         `json:"format,omitempty"`
	PresetFound  bool           `json:"preset_found"`
	Options      map[string]any `json:"options"`
	Locales      []string       `json:"locales"`
	LocaleSource string         `json:"locale_source"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	ctx, req, err := s.formatRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	out, err := s.resolver.FormatContext(ctx, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	// An allowed empty value renders "" without looking the format up.
	if req.Value == nil {
		writeJSON(w, http.StatusOK, formatResponse{Result: out, Format: req.Format})
		return
	}

	resolution, err := s.resolver.ResolveContext(ctx, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := formatResponse{Result: out, Format: resolution.Format}
	if len(resolution.Locales) > 0 {
		resp.Locale = resolution.Locales[0]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx, req, err := s.formatRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	resolution, err := s.resolver.ResolveContext(ctx, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Format:       resolution.Format,
		PresetFound:  resolution.PresetFound,
		Options:      resolution.Options.Map(),
		Locales:      resolution.Locales,
		LocaleSource: string(resolution.LocaleSource),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	store := s.resolver.Formats()
	out := make(map[string]map[string]any)
	for _, name := range store.Names() {
		if opts, ok := store.Lookup(name); ok {
			out[name] = opts.Map()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLocales(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default_locale": s.catalog.DefaultLocale(),
		"locales":        s.catalog.All(),
	})
}

func (s *Server) handleLocale(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["locale"]
	meta, ok := s.catalog.Locale(code)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_locale", "no number rules for locale "+code)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// formatRequest reads a FormatRequest from the query string. Locales from the
// Accept-Language header go into the context so the request locale still wins.
func (s *Server) formatRequest(r *http.Request) (context.Context, numfmt.FormatRequest, error) {
	ctx := r.Context()
	query := r.URL.Query()

	var req numfmt.FormatRequest
	req.Format = query.Get(paramFormat)
	if name, ok := mux.Vars(r)[paramFormat]; ok {
		req.Format = name
	}

	if raw := strings.TrimSpace(query.Get(paramValue)); raw != "" {
		value, ok, err := numfmt.NumberValue(json.Number(raw))
		if err != nil {
			return ctx, req, err
		}
		if ok {
			req.Value = numfmt.Float(value)
		}
	}

	if raw := query.Get(paramAllowEmpty); raw != "" {
		allow, err := parseBool(raw)
		if err != nil {
			return ctx, req, err
		}
		req.AllowEmpty = allow
	}

	if raw := query.Get(paramLocale); raw != "" {
		req.Locale = strings.Split(raw, ",")
	}

	if err := applyOptions(&req.Options, query); err != nil {
		return ctx, req, err
	}

	if locales := acceptLanguage(r.Header.Get("Accept-Language")); len(locales) > 0 {
		ctx = numfmt.WithLocale(ctx, locales...)
	}
	return ctx, req, nil
}

func applyOptions(opts *numfmt.Options, query url.Values) error {
	for key, values := range query {
		switch key {
		case paramValue, paramFormat, paramLocale, paramAllowEmpty:
			continue
		}
		if !numfmt.IsOptionKey(key) {
			return invalid("unknown query parameter %q", key)
		}
		if len(values) == 0 {
			continue
		}
		if err := opts.SetString(key, values[len(values)-1]); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, invalid("%s expects a boolean, got %q", paramAllowEmpty, raw)
	}
	return b, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", numfmt.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// acceptLanguage returns the header's tags ordered by quality.
func acceptLanguage(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == language.Und {
			continue
		}
		locales = append(locales, tag.String())
	}
	return locales
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("format request failed", "error", err)
	} else {
		s.logger.Debug("format request rejected", "code", code, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, numfmt.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, numfmt.ErrUnknownFormat):
		return http.StatusNotFound, "unknown_format"
	case errors.Is(err, numfmt.ErrFormat):
		return http.StatusUnprocessableEntity, "format_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
