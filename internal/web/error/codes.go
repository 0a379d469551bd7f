// Package error maps the failures a page can end in to a status code and
// the message shown to the visitor.
package error

import (
	"log/slog"
	"net/http"

	"github.com/matt-dz/savorystories/internal/env"
	"github.com/matt-dz/savorystories/internal/web/requestid"
	"github.com/matt-dz/savorystories/internal/web/view"
)

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	NotFound            ErrorCode = "not_found"
	MethodNotAllowed    ErrorCode = "method_not_allowed"
	BackendUnavailable  ErrorCode = "backend_unavailable"
	RequestTooLarge     ErrorCode = "request_too_large"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	NotFound:            http.StatusNotFound,
	MethodNotAllowed:    http.StatusMethodNotAllowed,
	BackendUnavailable:  http.StatusBadGateway,
	RequestTooLarge:     http.StatusRequestEntityTooLarge,
}

var errorCodeToMessage = map[ErrorCode]string{
	InternalServerError: "Something went wrong on our side. Please try again.",
	BadRequest:          "We couldn't understand that request.",
	NotFound:            "We couldn't find the page you're looking for.",
	MethodNotAllowed:    "That action isn't available here.",
	BackendUnavailable:  "Our kitchen is not answering right now. Please try again in a moment.",
	RequestTooLarge:     "That upload is too large.",
}

func (ec ErrorCode) StatusCode() int {
	if status := errorCodeToStatusCode[ec]; status != 0 {
		return status
	}
	return http.StatusInternalServerError
}

func (ec ErrorCode) Message() string {
	if msg, ok := errorCodeToMessage[ec]; ok {
		return msg
	}
	return errorCodeToMessage[InternalServerError]
}

func (ec ErrorCode) String() string {
	return string(ec)
}

// Render renders the error page for code. The page carries the request id
// so a visitor can quote it.
func Render(w http.ResponseWriter, r *http.Request, code ErrorCode) {
	ctx := r.Context()
	env.EnvFromCtx(ctx).Logger.DebugContext(ctx, "rendering error page", slog.String("code", code.String()))
	view.Render(w, r, code.StatusCode(), "error", http.StatusText(code.StatusCode()), view.ErrorPage{
		Status:    code.StatusCode(),
		Message:   code.Message(),
		RequestID: requestid.ExtractRequestID(ctx),
	})
}

// NotFoundHandler is the router fallback.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	view.RenderNotFound(w, r, view.NotFound{
		Heading:   "Page Not Found",
		Message:   NotFound.Message(),
		Back:      "/",
		BackLabel: "Back home",
	})
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	Render(w, r, MethodNotAllowed)
}
