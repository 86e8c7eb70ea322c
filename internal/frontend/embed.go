package frontend

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// GetStaticFS returns the embedded stylesheet and script assets
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}
