// Package serve exposes a compiled Sift app over HTTP.
//
// The server resolves every request against the live snapshot's route tree
// and hands the match to a PageRenderer or APIInvoker. Both have debug
// implementations that emit the match as JSON, which is what the dev server
// uses; production embedders supply their own.
//
// Snapshots come from a compiler.Publisher, so a rebuild swaps the whole
// app atomically between two requests without dropping either.
package serve
