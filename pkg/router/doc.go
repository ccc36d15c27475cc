// Package router implements file-based routing for Sift.
//
// The router provides:
//   - Route-tree construction from the app-root file listing
//   - Static / dynamic / catch-all segment classification
//   - Path resolution with parameter extraction
//   - Layout composition, root layout outermost
//
// # File Structure Convention
//
// Routes are defined by files under the app root:
//
//	app/
//	├── page.sft              → /
//	├── layout.sft            → layout for all routes
//	├── about/
//	│   └── page.sft          → /about
//	├── blog/
//	│   └── [slug]/
//	│       ├── page.sft      → /blog/[slug]
//	│       └── [...rest]/
//	│           └── page.sft  → /blog/[slug]/[...rest]
//	└── api/
//	    └── users.sft         → /api/users (method handlers)
//
// Directory segments named [name] are dynamic and bind one path segment;
// [...name] is a catch-all that binds the rest of the path and must be the
// last segment on its branch. Files named page.* attach a page to their
// directory's node; layout.* attaches a layout wrapping all descendant
// pages; files under an api/ subtree attach method-keyed API handlers.
//
// # Matching
//
// Resolution walks the tree one segment at a time with fixed precedence at
// every level: a static child that equals the segment wins over the dynamic
// child, which wins over the catch-all child. A non-matching path is a
// normal NoMatch result, never an error.
//
// # Usage
//
//	root, err := router.BuildRouteTree(paths)
//	match, ok := root.Resolve("/blog/hello-world")
//	if ok {
//	    // match.Params["slug"] == "hello-world"
//	    // match.Page, match.Layouts available
//	}
//
// The tree is read-only after construction; concurrent Resolve calls need
// no locking. Rebuilds on file-set changes replace the tree wholesale.
package router
