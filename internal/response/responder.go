package response

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"bookverse/internal/storage"
)

type Responder struct {
	DebugMode bool
}

// RespondError maps the error onto a status code and logs it. Store
// failures (and anything else unexpected) become a 500 whose body hides the
// cause behind an error id unless DebugMode is on.
func (rr *Responder) RespondError(w http.ResponseWriter, ctx context.Context, err error) {
	errId := uuid.NewString()

	var dae *storage.DataAccessError
	if errors.As(err, &dae) {
		log(ctx, slog.LevelError, err.Error(), slog.String("err_id", errId), slog.String("op", dae.Op))
	} else {
		log(ctx, slog.LevelError, err.Error(), slog.String("err_id", errId))
	}

	rr.renderServerError(w, ctx, err.Error(), errId)
}

// RespondInvalid reports a client-side validation failure as a 400. Unlike
// server errors the message is always included, the client needs to know
// which parameter was rejected.
func (rr *Responder) RespondInvalid(w http.ResponseWriter, ctx context.Context, err error) {
	log(ctx, slog.LevelInfo, "rejected request: "+err.Error())

	bs, merr := json.Marshal(map[string]any{"error": capitalize(err.Error())})
	if merr != nil {
		bs = []byte(`{"error":"invalid request"}`)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func (rr *Responder) SendJson(w http.ResponseWriter, ctx context.Context, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.RespondError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func (rr *Responder) renderServerError(w http.ResponseWriter, ctx context.Context, message, errId string) {
	data := map[string]any{}

	if rr.DebugMode {
		data["error"] = capitalize(message)
	} else {
		data["error"] = "Unknown error occurred while processing your request. Error ID: " + errId
	}

	bs, err := json.Marshal(data)
	if err == nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		log(ctx, slog.LevelError, "cannot marshall error response body: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		bs = []byte("unknown error")
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

func capitalize(message string) string {
	r, s := utf8.DecodeRuneInString(message)
	if r == utf8.RuneError {
		return message
	}

	return string(unicode.ToUpper(r)) + message[s:]
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
