// Package dashboard provides the embedded web presenter page for pulsecheck.
//
// The page is a single HTML file with inline CSS and JavaScript. It renders
// one row per target, follows updates over Server-Sent Events and lets the
// user change the polling interval.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard page.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - table, interval form and SSE client
//
//go:embed assets/*
var Assets embed.FS
