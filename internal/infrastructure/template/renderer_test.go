package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	"github.com/beneficlub/backoffice/internal/domain/shared"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 49,90", FormatBRL(shared.NewMoney(4990, "BRL")))
	assert.Equal(t, "R$ 1.234,50", FormatBRL(shared.NewMoney(123450, "BRL")))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Maria Souza", DisplayName("  MARIA SOUZA "))
	assert.Equal(t, "João", DisplayName("joão"))
}

func TestTextRenderer_Render(t *testing.T) {
	due := time.Date(2026, 4, 10, 3, 0, 0, 0, time.UTC)
	data := NewTemplateData("ana paula lima", "Família", shared.NewMoney(7990, "BRL"), nil, &due)

	r := NewTextRenderer()
	out, err := r.Render("Olá {{.FirstName}}, {{.Amount}} venceu em {{.DueDate}} ({{.PlanName}}).", data)
	require.NoError(t, err)
	assert.Equal(t, "Olá Ana, R$ 79,90 venceu em 10/04/2026 (Família).", out)

	// cached path
	out2, err := r.Render("Olá {{.FirstName}}, {{.Amount}} venceu em {{.DueDate}} ({{.PlanName}}).", data)
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestTextRenderer_Errors(t *testing.T) {
	r := NewTextRenderer()

	_, err := r.Render("{{.Nope}}", cadence.TemplateData{})
	assert.Error(t, err)

	_, err = r.Render("{{if}}", cadence.TemplateData{})
	assert.Error(t, err)
}
