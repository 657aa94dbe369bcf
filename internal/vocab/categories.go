package vocab

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// CategoryOrder is the versioned, per-axis list of canonical category names
// used to lay out charts and reports. Values are immutable once built.
type CategoryOrder struct {
	version string
	byAxis  [3][]string
	aliases map[string]string
}

// DefaultVersion tags the built-in category list.
const DefaultVersion = "abnt-pr-2030"

// DefaultCategoryOrder is the built-in ABNT PR 2030 layout.
func DefaultCategoryOrder() CategoryOrder {
	return CategoryOrder{
		version: DefaultVersion,
		byAxis: [3][]string{
			{"Resíduos", "Energia", "Água", "Natureza", "Pegada de Carbono"},
			{"Trabalho", "Clientes", "Equipe", "Comunidade", "Segurança e Qualidade"},
			{"Finanças", "Ética", "Diretoria", "Conduta", "Relacionamento com o Governo"},
		},
		aliases: map[string]string{
			"Relação com o Governo": "Relacionamento com o Governo",
		},
	}
}

type categoryFile struct {
	Version    string            `toml:"version"`
	Ambiental  []string          `toml:"ambiental"`
	Social     []string          `toml:"social"`
	Governanca []string          `toml:"governanca"`
	Aliases    map[string]string `toml:"aliases"`
}

// LoadCategoryOrder reads a TOML override of the category layout. Axes left
// out of the file keep the built-in order.
//
//	version = "2025-01"
//	ambiental = ["Resíduos", "Energia"]
//	[aliases]
//	"Relação com o Governo" = "Relacionamento com o Governo"
func LoadCategoryOrder(path string) (CategoryOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CategoryOrder{}, fmt.Errorf("read category order: %w", err)
	}
	return ParseCategoryOrder(data)
}

// ParseCategoryOrder decodes the TOML form accepted by LoadCategoryOrder.
func ParseCategoryOrder(data []byte) (CategoryOrder, error) {
	var f categoryFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return CategoryOrder{}, fmt.Errorf("decode category order: %w", err)
	}
	order := DefaultCategoryOrder()
	if f.Version != "" {
		order.version = f.Version
	}
	for i, list := range [3][]string{f.Ambiental, f.Social, f.Governanca} {
		if len(list) == 0 {
			continue
		}
		if dup := firstDuplicate(list); dup != "" {
			return CategoryOrder{}, fmt.Errorf("category %q listed twice under %s", dup, Axes[i])
		}
		order.byAxis[i] = append([]string(nil), list...)
	}
	for alias, canonical := range f.Aliases {
		order.aliases[alias] = canonical
	}
	return order, nil
}

func firstDuplicate(list []string) string {
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			return s
		}
		seen[s] = struct{}{}
	}
	return ""
}

// Version identifies the category list in use.
func (o CategoryOrder) Version() string { return o.version }

// For returns a copy of the ordered categories of an axis.
func (o CategoryOrder) For(a Axis) []string {
	i := a.Index()
	if i < 0 {
		return nil
	}
	return append([]string(nil), o.byAxis[i]...)
}

// Canonical resolves a known alternate spelling to its canonical name.
// Unknown names come back unchanged.
func (o CategoryOrder) Canonical(name string) string {
	if c, ok := o.aliases[name]; ok {
		return c
	}
	return name
}
