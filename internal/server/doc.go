// Package server provides the web presenter of pulsecheck.
//
// This package is internal to pulsecheck and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: JSON rows at "/api/rows", interval control at "/api/interval"
//   - Server-Sent Events: Real-time row updates at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
