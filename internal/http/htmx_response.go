package httpx

import (
	"net/http"
	"strings"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect instructs htmx to navigate to url and answers 204 No Content.
// The handler should return immediately after calling this method.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger triggers a client-side event after swap with optional payload.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Toast triggers the showToast client event.
func (h *HTMXResponse) Toast(message, kind string) *HTMXResponse {
	if strings.TrimSpace(message) == "" {
		return h
	}
	return h.Trigger("showToast", map[string]string{"message": message, "type": kind})
}

// KeepContent leaves the current DOM untouched: nothing is swapped and the
// response body is empty. Used when a list refresh fails or was superseded.
func (h *HTMXResponse) KeepContent() {
	SetHXReswap(h.w, "none")
	h.w.WriteHeader(http.StatusNoContent)
}
