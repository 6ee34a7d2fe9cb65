// Package api exposes the dictation and drafting operations over HTTP.
package api

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/internal/dictation"
	"github.com/kbukum/compapol/internal/draft"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/server"
	"github.com/kbukum/compapol/server/middleware"
)

// Routes served by Handler.
const (
	PathWhisper     = "/api/whisper"
	PathPoliceDraft = "/api/police-draft"

	// FormFieldFile is the multipart field carrying the recording.
	FormFieldFile = "file"
)

// Transcriber turns an uploaded recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, up dictation.Upload) (dictation.Result, error)
}

// Drafter turns a dictation and its context into a drafted body.
type Drafter interface {
	Compose(ctx context.Context, req draft.Request) (draft.Response, error)
}

// Handler serves the public API.
type Handler struct {
	transcriber Transcriber
	drafter     Drafter
	log         *logger.Logger
}

// NewHandler wires the API to its services.
func NewHandler(t Transcriber, d Drafter, log *logger.Logger) *Handler {
	return &Handler{transcriber: t, drafter: d, log: log.WithComponent("api")}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST(PathWhisper, h.Whisper)
	r.POST(PathPoliceDraft, h.PoliceDraft)
}

// Whisper streams the "file" part of a multipart upload to the transcriber
// and answers {"text": ...}.
func (h *Handler) Whisper(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		// Not multipart at all: same as a request without a file.
		h.transcribe(c, dictation.Upload{Size: -1})
		return
	}
	for {
		part, err := reader.NextPart()
		if stderrors.Is(err, io.EOF) {
			h.transcribe(c, dictation.Upload{Size: -1})
			return
		}
		if err != nil {
			if _, tooLarge := middleware.TooLarge(err); tooLarge {
				server.RespondWithError(c, err)
				return
			}
			h.log.WithContext(c.Request.Context()).Debug("malformed multipart body",
				logger.Fields(logger.FieldError, err.Error()))
			server.RespondWithError(c, apperrors.MissingField(FormFieldFile, dictation.MsgNoAudio))
			return
		}
		if part.FormName() != FormFieldFile {
			_ = part.Close()
			continue
		}
		h.transcribe(c, dictation.Upload{
			Body:        part,
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        -1,
		})
		_ = part.Close()
		return
	}
}

func (h *Handler) transcribe(c *gin.Context, up dictation.Upload) {
	res, err := h.transcriber.Transcribe(c.Request.Context(), up)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, res)
}

// PoliceDraft binds the JSON body and answers {"html": ...}. An empty body
// is treated as an empty request.
func (h *Handler) PoliceDraft(c *gin.Context) {
	var req draft.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := draft.DecodeError(err); err != nil {
			server.RespondWithError(c, err)
			return
		}
	}
	resp, err := h.drafter.Compose(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}
