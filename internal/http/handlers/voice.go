package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/services"
	"github.com/yungbote/studyquiz-backend/internal/voice"
)

type VoiceHandler struct {
	voice services.VoiceService
}

func NewVoiceHandler(svc services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: svc}
}

// POST /api/voice/transcribe
// multipart form field "audio"
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	// headroom for multipart framing
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxVoiceClipBytes+1<<20)
	fh, err := c.FormFile("audio")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, apierr.CodeInvalidRequest, errors.New("Recording is too large"))
			return
		}
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("An audio recording is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, services.MaxVoiceClipBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}

	transcript, err := h.voice.Transcribe(c.Request.Context(), userID, voice.Clip{
		Audio:    audio,
		MimeType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transcript": transcript})
}

// DELETE /api/voice
func (h *VoiceHandler) Stop(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	h.voice.Stop(userID)
	response.RespondOK(c, h.voice.Status(userID))
}

// GET /api/voice/status
func (h *VoiceHandler) Status(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.voice.Status(userID))
}
