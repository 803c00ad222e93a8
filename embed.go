package foodies

import "embed"

// EmbeddedAssets contains static assets shipped with the framework: the
// default stylesheet served at /public/foodies.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
