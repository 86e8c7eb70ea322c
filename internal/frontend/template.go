package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"
)

const indexTemplatePath = "templates/index.html"

// LoadIndexTemplate parses the page template from the embedded filesystem
func LoadIndexTemplate() (*template.Template, error) {
	return loadIndexTemplate(assets)
}

func loadIndexTemplate(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New("index.html").ParseFS(fsys, indexTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// RenderIndex renders the page for view with the given status code
func RenderIndex(c *gin.Context, tmpl *template.Template, status int, view View) error {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
