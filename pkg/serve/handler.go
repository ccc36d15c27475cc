package serve

import (
	"encoding/json"
	"net/http"

	"github.com/sift-dev/sift/pkg/compiler"
	"github.com/sift-dev/sift/pkg/middleware"
	"github.com/sift-dev/sift/pkg/router"
)

// handleHealth reports liveness and the current build ID.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	middleware.SetRoutePattern(r, "/healthz")

	body := map[string]any{"status": "ok"}
	if snap := s.source.Current(); snap != nil {
		body["buildId"] = snap.BuildID
	} else {
		body["status"] = "starting"
	}
	writeJSON(w, http.StatusOK, body)
}

// dispatch resolves the request path against the live snapshot and routes
// the match to the page renderer or API invoker.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Current()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "no build available",
		})
		return
	}

	match, ok := snap.Resolve(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": "not found",
			"path":  r.URL.Path,
		})
		return
	}
	middleware.SetRoutePattern(r, match.Pattern)

	// API takes precedence for paths under api/; a node never carries both.
	if match.API != nil {
		s.invokeAPI(w, r, snap, match)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error": "method not allowed",
		})
		return
	}

	if err := s.renderer.RenderPage(w, r, snap, match); err != nil {
		s.logger.Error("render failed", "pattern", match.Pattern, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "render failed",
		})
	}
}

// invokeAPI checks that the module exports a handler for the method before
// delegating to the invoker.
func (s *Server) invokeAPI(w http.ResponseWriter, r *http.Request, snap *compiler.Snapshot, match *router.Match) {
	desc := match.API.Descriptor
	handled := false
	if desc != nil {
		_, handled = desc.API[r.Method]
	}
	if !handled {
		w.Header().Set("Allow", allowedMethods(match))
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error":  "method not allowed",
			"method": r.Method,
		})
		return
	}

	if err := s.invoker.InvokeAPI(w, r, snap, match); err != nil {
		s.logger.Error("API handler failed", "pattern", match.Pattern, "method", r.Method, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "internal error",
		})
	}
}

// allowedMethods lists the methods the matched API module exports.
func allowedMethods(match *router.Match) string {
	desc := match.API.Descriptor
	if desc == nil {
		return ""
	}
	out := ""
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if _, ok := desc.API[m]; ok {
			if out != "" {
				out += ", "
			}
			out += m
		}
	}
	return out
}

// DebugRenderer emits the page match as JSON. The dev server uses it so a
// browser can inspect what a route resolves to before a real renderer is
// plugged in.
type DebugRenderer struct{}

// RenderPage implements PageRenderer.
func (DebugRenderer) RenderPage(w http.ResponseWriter, r *http.Request, snap *compiler.Snapshot, match *router.Match) error {
	layouts := make([]string, len(match.Layouts))
	for i, l := range match.Layouts {
		layouts[i] = l.File
	}

	body := map[string]any{
		"buildId": snap.BuildID,
		"pattern": match.Pattern,
		"page":    match.Page.File,
		"layouts": layouts,
		"params":  match.Params,
	}
	if match.Page.Descriptor != nil {
		body["component"] = match.Page.Descriptor.Name
	}
	writeJSON(w, http.StatusOK, body)
	return nil
}

// DebugInvoker emits the API match as JSON.
type DebugInvoker struct{}

// InvokeAPI implements APIInvoker.
func (DebugInvoker) InvokeAPI(w http.ResponseWriter, r *http.Request, snap *compiler.Snapshot, match *router.Match) error {
	body := map[string]any{
		"buildId": snap.BuildID,
		"pattern": match.Pattern,
		"module":  match.API.File,
		"method":  r.Method,
		"params":  match.Params,
	}
	writeJSON(w, http.StatusOK, body)
	return nil
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
