package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Multipart bodies carry the document plus a little form overhead.
const maxUploadBytes = quiz.MaxDocumentSize + 1<<20

type generateReq struct {
	Topic string `json:"topic"`
}

type gradeReq struct {
	Quiz    *quiz.QuizData   `json:"quiz"`
	Answers quiz.UserAnswers `json:"answers"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/quizzes
//
// Accepts {"topic": "..."} as JSON, or a multipart form with a "file"
// field holding a PDF, DOC or DOCX document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	src, err := s.readSource(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := llm.WithSessionID(r.Context(), middleware.GetReqID(r.Context()))
	if s.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.GenerateTimeout)
		defer cancel()
	}
	q, err := s.gen.Generate(ctx, src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// POST /api/grade
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &quiz.Error{Kind: quiz.KindInput, Message: "Request body must be JSON.", Err: err})
		return
	}
	if req.Quiz == nil || req.Quiz.Total() == 0 {
		s.writeError(w, r, &quiz.Error{Kind: quiz.KindInput, Message: "A quiz with at least one question is required.", Err: quiz.ErrNoSource})
		return
	}
	writeJSON(w, http.StatusOK, quiz.Grade(req.Quiz, req.Answers))
}

func (s *Server) readSource(w http.ResponseWriter, r *http.Request) (quiz.Source, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return quiz.Source{}, &quiz.Error{Kind: quiz.KindInput, Message: "A \"file\" form field is required.", Err: err}
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return quiz.Source{}, &quiz.Error{Kind: quiz.KindInput, Message: "Could not read the uploaded file.", Err: err}
		}
		doc, err := quiz.NewDocument(hdr.Filename, hdr.Header.Get("Content-Type"), data)
		if err != nil {
			return quiz.Source{}, err
		}
		return quiz.DocumentSource(doc), nil
	}

	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return quiz.Source{}, &quiz.Error{Kind: quiz.KindInput, Message: "Request body must be JSON with a \"topic\" field.", Err: err}
	}
	return quiz.TopicSource(req.Topic), nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := quiz.KindOf(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"kind", kind.String(),
			"error", err,
		)
	}
	writeJSON(w, status, errorResp{Error: quiz.Message(err), Kind: kind.String()})
}

func statusFor(err error) int {
	if errors.Is(err, quiz.ErrUnsupportedType) {
		return http.StatusUnsupportedMediaType
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch quiz.KindOf(err) {
	case quiz.KindConfiguration:
		return http.StatusServiceUnavailable
	case quiz.KindInput:
		return http.StatusBadRequest
	case quiz.KindUpstream, quiz.KindFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
