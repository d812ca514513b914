package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fieldError mirrors the client's structured-error shape; the first
// entry is what ends up in front of the user.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeFieldErrors(w http.ResponseWriter, code int, errs ...fieldError) {
	msg := "validation failed"
	if len(errs) > 0 {
		msg = errs[0].Message
	}
	writeJSON(w, code, map[string]any{"error": msg, "errors": errs})
}

// userID resolves the acting user. Auth token issuance is out of scope;
// the gateway in front of this service injects the header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return "guest"
}
