package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/npmap/pkg/buildinfo"
	apperr "github.com/matzehuels/npmap/pkg/errors"
	"github.com/matzehuels/npmap/pkg/importmap"
	"github.com/matzehuels/npmap/pkg/manifest"
	"github.com/matzehuels/npmap/pkg/pipeline"
)

const (
	// ContentTypeImportMap is the media type browsers expect for import maps.
	ContentTypeImportMap = "application/importmap+json"

	// HeaderSkipped reports how many dependencies were left out.
	HeaderSkipped = "X-Npmap-Skipped"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

type cdnInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Default bool   `json:"default,omitempty"`
}

func (s *Server) handleCDNs(w http.ResponseWriter, r *http.Request) {
	out := make([]cdnInfo, 0, len(importmap.CDNs()))
	for _, c := range importmap.CDNs() {
		out = append(out, cdnInfo{Name: c.String(), BaseURL: c.BaseURL(), Default: c == s.defaultCDN})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUpload resolves a package.json sent as the request body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := manifest.Decode(http.MaxBytesReader(w, r.Body, maxManifestSize))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.ExecuteManifest(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDocument(w, r, res)
}

// handleFetch resolves the remote package.json named by ?manifest=.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.parseOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts.Source = q.Get("manifest")
	if opts.Source == "" {
		s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "missing manifest parameter"))
		return
	}
	// Local paths would expose the server's filesystem.
	if err := apperr.ValidateURL(opts.Source); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDocument(w, r, res)
}

func (s *Server) parseOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{CDN: s.defaultCDN}
	if v := q.Get("cdn"); v != "" {
		cdn, err := importmap.ParseCDN(v)
		if err != nil {
			return opts, err
		}
		opts.CDN = cdn
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"dev", &opts.Selection.Dev},
		{"peer", &opts.Selection.Peer},
		{"optional", &opts.Selection.Optional},
		{"refresh", &opts.Refresh},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, apperr.New(apperr.ErrCodeInvalidInput, "%s: expected a boolean, got %q", f.name, v)
		}
		*f.dst = b
	}
	return opts, nil
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	data, err := res.Document.Marshal()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ContentTypeImportMap)
	w.Header().Set(HeaderSkipped, strconv.Itoa(len(res.Skipped)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type errorResponse struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError && code == apperr.ErrCodeInternal {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: requestIDFrom(r.Context())})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidCDN, apperr.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeNetwork:
		return http.StatusBadGateway
	case apperr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
