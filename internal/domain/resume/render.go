package resume

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

const (
	TemplateModern   = "modern"
	TemplateClassic  = "classic"
	TemplateCreative = "creative"
	TemplateMinimal  = "minimal"

	DefaultTemplate = TemplateClassic
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("resume").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.html"),
)

// ResolveTemplate maps a requested template name onto a known one, falling
// back to the classic layout.
func ResolveTemplate(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TemplateModern:
		return TemplateModern
	case TemplateCreative:
		return TemplateCreative
	case TemplateMinimal:
		return TemplateMinimal
	default:
		return DefaultTemplate
	}
}

// Render produces the resume markup for data using the named template.
func Render(name string, data Data) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, ResolveTemplate(name), data); err != nil {
		return "", fmt.Errorf("render %s resume: %w", name, err)
	}
	return buf.String(), nil
}

// RenderPage wraps stored markup into a standalone HTML document. An empty
// downloadURL omits the action buttons, which is what the PDF renderer wants.
func RenderPage(title, content, downloadURL string) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "page", struct {
		Title       string
		Content     template.HTML
		DownloadURL string
	}{
		Title: title,
		// Content was produced by Render and is already escaped.
		Content:     template.HTML(content),
		DownloadURL: downloadURL,
	})
	if err != nil {
		return "", fmt.Errorf("render resume page: %w", err)
	}
	return buf.String(), nil
}
