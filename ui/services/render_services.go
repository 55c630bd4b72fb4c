package services

import (
	"html/template"
	"strings"

	"hrpulse/internal"

	"github.com/gomarkdown/markdown"
)

type RenderService struct {
	templates *template.Template
	logger    *internal.Logger
}

func NewRenderService(templates *template.Template, logger *internal.Logger) *RenderService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RenderService{
		templates: templates,
		logger:    logger.With("RenderService"),
	}
}

// RenderPage executes a named page template. Failures are logged and
// replaced with an error notice.
func (s *RenderService) RenderPage(name string, data interface{}) string {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render %s template: %v", name, err)
		return `<div class="notice error">Error rendering dashboard</div>`
	}
	return buf.String()
}

// Markdown converts caption text to HTML. Captions come from the dashboard
// definition, which is operator-controlled.
func Markdown(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
}
