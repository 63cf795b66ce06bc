// Package render produces customer-facing text from named templates and
// a context mapping. Rendering never fails a turn: unknown templates and
// execution errors yield a fixed fail-safe string.
package render

import (
	"embed"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FailSafe is returned whenever a template cannot be rendered.
const FailSafe = "System Error: Unable to generate response."

// Renderer renders the embedded response templates.
type Renderer struct {
	templates *template.Template
	logger    *zap.Logger
}

// NewRenderer parses the embedded template set.
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("responses").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl, logger: logger}, nil
}

// Has reports whether a template with the given name exists.
func (r *Renderer) Has(name string) bool {
	return r.templates.Lookup(name+".tmpl") != nil
}

// Render executes the named template against the context mapping. Any
// fault returns FailSafe instead of an error.
func (r *Renderer) Render(name string, ctx map[string]any) string {
	tmpl := r.templates.Lookup(name + ".tmpl")
	if tmpl == nil {
		r.logger.Error("unknown template", zap.String("template", name))
		return FailSafe
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx); err != nil {
		r.logger.Error("template execution failed", zap.String("template", name), zap.Error(err))
		return FailSafe
	}
	return strings.TrimSpace(sb.String())
}
