package web

//go:generate go tool templ generate -path templates

import "embed"

// StaticFS holds the embedded stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
