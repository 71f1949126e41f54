package voice

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/studyquiz-backend/internal/platform/apierr"
	"github.com/yungbote/studyquiz-backend/internal/platform/httpx"
)

type ErrorCode string

const (
	CodeNoSpeech         ErrorCode = "no_speech"
	CodeNoMicrophone     ErrorCode = "no_microphone"
	CodePermissionDenied ErrorCode = "permission_denied"
	CodeNetwork          ErrorCode = "network"
	CodeRecognition      ErrorCode = "recognition_error"
)

// Error is a recognition failure in the shape clients display.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrNoSpeech         = &Error{Code: CodeNoSpeech, Msg: "No speech detected. Please try again."}
	ErrNoMicrophone     = &Error{Code: CodeNoMicrophone, Msg: "No microphone found. Please check your microphone."}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied, Msg: "Microphone permission denied. Please allow microphone access in your browser settings."}
	ErrNetwork          = &Error{Code: CodeNetwork, Msg: "Network error. Please check your internet connection."}

	// ErrUnavailable is reported when no recognizer is configured.
	ErrUnavailable = apierr.Unavailable(errors.New("Speech recognition is not available on this server"))
)

// Normalize maps a recognizer failure onto the fixed set of voice errors.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return &Error{Code: CodePermissionDenied, Msg: ErrPermissionDenied.Msg, Err: err}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &Error{Code: CodeNetwork, Msg: ErrNetwork.Msg, Err: err}
	}
	if httpx.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeNetwork, Msg: ErrNetwork.Msg, Err: err}
	}
	detail := err.Error()
	if st, ok := status.FromError(err); ok && st.Message() != "" {
		detail = st.Message()
	}
	return &Error{Code: CodeRecognition, Msg: fmt.Sprintf("Speech recognition error: %s", detail), Err: err}
}
