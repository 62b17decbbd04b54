package main

import (
	"embed"

	"snapstream/internal/cli"

	// Import docs for Swagger
	_ "snapstream/docs"
)

//go:embed all:static
var staticFS embed.FS

// @title SnapStream Web
// @version 1.0.0
// @description Server-rendered web frontend for the SnapStream media platform. The JSON endpoints listed here answer requests carrying the X-SnapStream-Fragment header.
// @BasePath /
// @schemes http

func main() {
	cli.Execute(staticFS)
}
