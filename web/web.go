// Package web embeds the static front page.
package web

import "embed"

//go:embed index.html public
var FS embed.FS
