// Package middleware provides observability middleware for Sift servers.
//
// Both middlewares follow the standard func(http.Handler) http.Handler shape
// and compose with chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//	r.Use(middleware.Prometheus())
//
// The Prometheus middleware labels requests by the matched route pattern
// (e.g. "/blog/[slug]") rather than the raw URL, so dynamic routes do not
// explode label cardinality. Handlers record the pattern with SetRoutePattern
// after resolution.
package middleware
