// Package assets embeds the browser client served at the site root.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static returns the client files rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
