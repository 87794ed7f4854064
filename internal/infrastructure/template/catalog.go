package template

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type catalogFile struct {
	Cadences map[string]cadenceFile `yaml:"cadences"`
}

type cadenceFile struct {
	Steps []stepFile `yaml:"steps"`
}

type stepFile struct {
	Delay    string `yaml:"delay"`
	Template string `yaml:"template"`
}

// CadenceCatalog is the set of cadences loaded at startup. Cadences missing
// from the file keep their built-in definition.
type CadenceCatalog struct {
	cadences map[vo.CadenceName]cadence.Cadence
	path     string
	logger   logger.Interface
}

func NewCadenceCatalog(path string, logger logger.Interface) *CadenceCatalog {
	c := &CadenceCatalog{
		cadences: make(map[vo.CadenceName]cadence.Cadence),
		path:     path,
		logger:   logger,
	}
	for _, d := range DefaultCadences() {
		c.cadences[d.Name] = d
	}
	return c
}

// Load reads the YAML catalog. A missing file is not an error.
func (c *CadenceCatalog) Load() error {
	if c.path == "" {
		c.logger.Infow("no cadence catalog configured, using built-in cadences")
		return nil
	}

	content, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Warnw("cadence catalog not found, using built-in cadences", "path", c.path)
			return nil
		}
		return fmt.Errorf("failed to read cadence catalog: %w", err)
	}

	loaded, err := ParseCatalog(content)
	if err != nil {
		return fmt.Errorf("cadence catalog %s: %w", c.path, err)
	}
	for _, cd := range loaded {
		c.cadences[cd.Name] = cd
		c.logger.Infow("loaded cadence",
			"cadence", cd.Name,
			"steps", len(cd.Steps),
		)
	}
	return nil
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(content []byte) ([]cadence.Cadence, error) {
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	names := make([]string, 0, len(file.Cadences))
	for name := range file.Cadences {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]cadence.Cadence, 0, len(names))
	for _, name := range names {
		def := file.Cadences[name]
		cd := cadence.Cadence{Name: vo.CadenceName(strings.TrimSpace(name))}
		for i, s := range def.Steps {
			delay, err := parseDelay(s.Delay)
			if err != nil {
				return nil, fmt.Errorf("cadence %s step %d: %w", name, i, err)
			}
			cd.Steps = append(cd.Steps, cadence.Step{Delay: delay, Template: s.Template})
		}
		if err := cd.Validate(); err != nil {
			return nil, err
		}
		if err := checkTemplate(cd); err != nil {
			return nil, err
		}
		result = append(result, cd)
	}
	return result, nil
}

// parseDelay accepts Go durations plus a "d" suffix for whole days.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid delay %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q", s)
	}
	return d, nil
}

func checkTemplate(cd cadence.Cadence) error {
	for i, s := range cd.Steps {
		if _, err := parse(s.Template); err != nil {
			return fmt.Errorf("cadence %s step %d: %w", cd.Name, i, err)
		}
	}
	return nil
}

func (c *CadenceCatalog) Get(name vo.CadenceName) (cadence.Cadence, error) {
	cd, ok := c.cadences[name]
	if !ok {
		return cadence.Cadence{}, fmt.Errorf("%w: %s", cadence.ErrCadenceNotFound, name)
	}
	return cd, nil
}

func (c *CadenceCatalog) Names() []vo.CadenceName {
	names := make([]vo.CadenceName, 0, len(c.cadences))
	for name := range c.cadences {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// DefaultCadences are used when no catalog file overrides them.
func DefaultCadences() []cadence.Cadence {
	return []cadence.Cadence{
		{
			Name: vo.CadenceWelcome,
			Steps: []cadence.Step{
				{Delay: 0, Template: "Olá {{.FirstName}}! Seja bem-vindo(a) ao clube. Seu plano {{.PlanName}} está ativo até {{.ExpiresAt}}."},
				{Delay: 24 * time.Hour, Template: "{{.FirstName}}, já conhece os parceiros do clube? Apresente seu CPF nos estabelecimentos e aproveite os descontos."},
				{Delay: 7 * 24 * time.Hour, Template: "{{.FirstName}}, como está sendo sua primeira semana no clube? Responda esta mensagem se precisar de ajuda."},
			},
		},
		{
			Name: vo.CadenceOverdue,
			Steps: []cadence.Step{
				{Delay: 0, Template: "Olá {{.FirstName}}, não identificamos o pagamento de {{.Amount}} com vencimento em {{.DueDate}}. Regularize para continuar usando seus benefícios."},
				{Delay: 3 * 24 * time.Hour, Template: "{{.FirstName}}, seu plano {{.PlanName}} continua em aberto. Se já pagou, desconsidere esta mensagem."},
				{Delay: 7 * 24 * time.Hour, Template: "{{.FirstName}}, último aviso: sem o pagamento de {{.Amount}} sua assinatura será encerrada."},
			},
		},
		{
			Name: vo.CadenceReactivated,
			Steps: []cadence.Step{
				{Delay: 0, Template: "Que bom ter você de volta, {{.FirstName}}! Pagamento confirmado, seus benefícios estão liberados até {{.ExpiresAt}}."},
			},
		},
	}
}
