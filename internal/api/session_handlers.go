package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelfgraph/shelfgraph/internal/http/response"
	"github.com/shelfgraph/shelfgraph/internal/ingest"
	"github.com/shelfgraph/shelfgraph/internal/session"
)

// maxUploadBytes bounds the CSV upload size.
const maxUploadBytes = 16 << 20

// handleUpload ingests a Goodreads CSV export and creates a session.
// The file arrives as multipart field "file"; an optional "year" query
// parameter keeps only books read that year.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "expected multipart form upload", s.logger)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded", s.logger)
		return
	}
	defer file.Close()

	var opts ingest.Options
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", s.logger)
			return
		}
		opts.YearRead = year
	}

	sess, err := s.sessions.CreateFromCSV(r.Context(), file, opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, sessionResponse(sess), s.logger)
}

// handleGetSession reports a session's phase and stats.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	response.Success(w, sessionResponse(sess), s.logger)
}

// handleHealthCheck reports service liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return nil, false
	}
	return sess, true
}
