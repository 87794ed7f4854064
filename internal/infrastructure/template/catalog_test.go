package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

const sampleCatalog = `
cadences:
  overdue:
    steps:
      - delay: 0
        template: "Oi {{.FirstName}}, pagamento de {{.Amount}} pendente."
      - delay: 2d
        template: "Lembrete para {{.FirstName}}."
      - delay: 90m
        template: "Último aviso."
  winback:
    steps:
      - delay: 30d
        template: "Sentimos sua falta, {{.FirstName}}."
`

func TestParseCatalog(t *testing.T) {
	cadences, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, cadences, 2)

	overdue := cadences[0]
	assert.Equal(t, vo.CadenceOverdue, overdue.Name)
	require.Len(t, overdue.Steps, 3)
	assert.Equal(t, time.Duration(0), overdue.Steps[0].Delay)
	assert.Equal(t, 48*time.Hour, overdue.Steps[1].Delay)
	assert.Equal(t, 90*time.Minute, overdue.Steps[2].Delay)

	assert.Equal(t, vo.CadenceName("winback"), cadences[1].Name)
	assert.Equal(t, 30*24*time.Hour, cadences[1].Steps[0].Delay)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "cadences: ["},
		{"bad delay", "cadences:\n  x:\n    steps:\n      - delay: soon\n        template: hi"},
		{"negative days", "cadences:\n  x:\n    steps:\n      - delay: -1d\n        template: hi"},
		{"no steps", "cadences:\n  x:\n    steps: []"},
		{"empty template", "cadences:\n  x:\n    steps:\n      - delay: 1h\n        template: \"\""},
		{"broken template", "cadences:\n  x:\n    steps:\n      - delay: 1h\n        template: \"{{.FirstName\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestCadenceCatalog_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadences.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c := NewCadenceCatalog(path, logger.NewNopLogger())
	require.NoError(t, c.Load())

	overdue, err := c.Get(vo.CadenceOverdue)
	require.NoError(t, err)
	assert.Len(t, overdue.Steps, 3)

	// built-in cadences not in the file survive
	welcome, err := c.Get(vo.CadenceWelcome)
	require.NoError(t, err)
	assert.NotEmpty(t, welcome.Steps)

	assert.Equal(t, []vo.CadenceName{"overdue", "reactivated", "welcome", "winback"}, c.Names())

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, cadence.ErrCadenceNotFound)
}

func TestCadenceCatalog_MissingFileUsesDefaults(t *testing.T) {
	c := NewCadenceCatalog(filepath.Join(t.TempDir(), "nope.yaml"), logger.NewNopLogger())
	require.NoError(t, c.Load())
	assert.Len(t, c.Names(), len(DefaultCadences()))
}

func TestDefaultCadences_AreValid(t *testing.T) {
	for _, cd := range DefaultCadences() {
		assert.NoError(t, cd.Validate(), cd.Name)
		assert.NoError(t, checkTemplate(cd), cd.Name)
	}
}
