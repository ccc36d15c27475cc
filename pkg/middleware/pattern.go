package middleware

import (
	"context"
	"net/http"
)

// routePatternKey carries the mutable pattern slot through the request
// context. The slot is installed by the middleware before the handler runs
// and written by the handler after route resolution.
type routePatternKey struct{}

type routePatternHolder struct {
	pattern string
}

// withPatternSlot installs an empty pattern slot on the request. Stacked
// middlewares share one slot so every layer sees the pattern.
func withPatternSlot(r *http.Request) (*http.Request, *routePatternHolder) {
	if holder, ok := r.Context().Value(routePatternKey{}).(*routePatternHolder); ok {
		return r, holder
	}
	holder := &routePatternHolder{}
	ctx := context.WithValue(r.Context(), routePatternKey{}, holder)
	return r.WithContext(ctx), holder
}

// SetRoutePattern records the matched route pattern (e.g. "/blog/[slug]")
// for the current request. Observability middleware uses the pattern as a
// low-cardinality label instead of the raw URL. No-op when no middleware
// installed a slot.
func SetRoutePattern(r *http.Request, pattern string) {
	if holder, ok := r.Context().Value(routePatternKey{}).(*routePatternHolder); ok {
		holder.pattern = pattern
	}
}

// RoutePattern returns the pattern recorded for the request, or "" if none
// was set.
func RoutePattern(r *http.Request) string {
	if holder, ok := r.Context().Value(routePatternKey{}).(*routePatternHolder); ok {
		return holder.pattern
	}
	return ""
}

// statusRecorder captures the response status code for labeling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}
