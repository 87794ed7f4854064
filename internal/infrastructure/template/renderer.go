package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
)

const displayDateLayout = "02/01/2006"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// TextRenderer renders step templates with text/template. Parsed templates
// are cached by source.
type TextRenderer struct {
	cache sync.Map
}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(source string, data cadence.TemplateData) (string, error) {
	var tmpl *template.Template
	if cached, ok := r.cache.Load(source); ok {
		tmpl = cached.(*template.Template)
	} else {
		parsed, err := parse(source)
		if err != nil {
			return "", err
		}
		r.cache.Store(source, parsed)
		tmpl = parsed
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func parse(source string) (*template.Template, error) {
	tmpl, err := template.New("step").Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return tmpl, nil
}

// FormatBRL renders money as "R$ 1.234,50".
func FormatBRL(m shared.Money) string {
	return "R$ " + brPrinter.Sprintf("%.2f", m.Decimal().InexactFloat64())
}

// DisplayName title-cases a name the way it is greeted in messages.
func DisplayName(name string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(strings.TrimSpace(name)))
}

// NewTemplateData fills the template fields. Dates are shown in the business timezone.
func NewTemplateData(name, planName string, amount shared.Money, expiresAt, dueDate *time.Time) cadence.TemplateData {
	display := DisplayName(name)
	first, _, _ := strings.Cut(display, " ")
	return cadence.TemplateData{
		Name:      display,
		FirstName: first,
		PlanName:  planName,
		Amount:    FormatBRL(amount),
		ExpiresAt: formatDate(expiresAt),
		DueDate:   formatDate(dueDate),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return biztime.FormatInBizTimezone(*t, displayDateLayout)
}
