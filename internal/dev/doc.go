// Package dev implements the development loop: watch the routes directory,
// rebuild the app on change, publish the new snapshot, and tell connected
// browsers to reload over WebSocket.
//
// Build errors do not kill the loop. The last good snapshot keeps serving
// and browsers show an error overlay until the next successful build.
package dev
