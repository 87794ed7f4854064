package cadence

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
)

var ErrCadenceNotFound = errors.New("cadence not found")

// Step is one message of a cadence. Delay counts from the moment the
// previous step finished, or from the trigger for the first step.
type Step struct {
	Delay    time.Duration
	Template string
}

type Cadence struct {
	Name  vo.CadenceName
	Steps []Step
}

func (c Cadence) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cadence name is required")
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("cadence %s has no steps", c.Name)
	}
	for i, s := range c.Steps {
		if s.Delay < 0 {
			return fmt.Errorf("cadence %s step %d: negative delay", c.Name, i)
		}
		if s.Template == "" {
			return fmt.Errorf("cadence %s step %d: empty template", c.Name, i)
		}
	}
	return nil
}

// Catalog resolves cadences by name.
type Catalog interface {
	Get(name vo.CadenceName) (Cadence, error)
	Names() []vo.CadenceName
}

// TemplateData is what step templates can reference.
type TemplateData struct {
	Name      string
	FirstName string
	PlanName  string
	Amount    string
	ExpiresAt string
	DueDate   string
}

// Renderer turns a step template into the message text.
type Renderer interface {
	Render(template string, data TemplateData) (string, error)
}
