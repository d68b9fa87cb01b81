package response

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"modelshop/internal/lib/apperr"
)

// Response is the envelope every JSON endpoint shares.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK(msg string) Response {
	return Response{Success: true, Message: msg}
}

func Error(msg string) Response {
	return Response{Success: false, Message: msg}
}

// Fail writes an error envelope with the given code.
func Fail(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, Error(msg))
}

// FailErr maps err through apperr and logs anything that is a server fault.
func FailErr(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error, fallback string) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Error(fallback, slog.String("op", op), slog.String("error", err.Error()))
	} else {
		log.Warn("request rejected", slog.String("op", op), slog.String("kind", kind.String()), slog.String("error", err.Error()))
	}

	Fail(w, r, kind.HTTPStatus(), apperr.PublicMessage(err, fallback))
}
