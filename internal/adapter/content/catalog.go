// Package content provides the built-in checklist templates used to generate audit entries.
// Пакет content предоставляет встроенные шаблоны чек-листов для генерации пунктов аудита.
package content

import (
	"math/rand/v2"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// Standard codes with a dedicated checklist.
const (
	CodeISO9001  = "iso-9001"
	CodeISO22000 = "iso-22000"
)

// Catalog answers templates from static tables. Standards without a table
// get one of the washing-machine tables and a machine-specific audit title.
// Catalog возвращает шаблоны из статических таблиц. Стандарты без таблицы
// получают одну из таблиц стиральных машин и название аудита по машине.
type Catalog struct {
	pick func(n int) int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPicker replaces the random choice of the fallback machine.
// WithPicker заменяет случайный выбор резервной машины.
func WithPicker(pick func(n int) int) Option {
	return func(c *Catalog) { c.pick = pick }
}

// NewCatalog creates a catalog backed by the built-in tables.
// NewCatalog создаёт каталог на встроенных таблицах.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{pick: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TemplatesFor returns the templates for a standard code.
// TemplatesFor возвращает шаблоны для кода стандарта.
func (c *Catalog) TemplatesFor(standardCode string) domain.TemplateSet {
	if templates, ok := standardTables[standardCode]; ok {
		return domain.TemplateSet{Templates: templates}
	}

	machine := machineTables[c.pick(len(machineTables))]
	return domain.TemplateSet{
		Title:     "Audit " + machine.name,
		Templates: machine.templates,
	}
}

// Machines lists the fallback machine types.
func Machines() []string {
	names := make([]string, len(machineTables))
	for i, m := range machineTables {
		names[i] = m.name
	}
	return names
}

var _ port.ContentProvider = (*Catalog)(nil)
