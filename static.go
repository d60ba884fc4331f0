package main

import "embed"

// staticFiles holds the SPA build. Replace the contents of static/ with the
// front-end build output before compiling a release.
//
//go:embed all:static
var staticFiles embed.FS
