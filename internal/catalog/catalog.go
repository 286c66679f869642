// Package catalog holds the static option lists the question wizard offers:
// school levels, grades, subjects, question types and their presets. The
// data ships embedded in the binary; there is no runtime source for it.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// Option is a selectable item with a stable id and a display label.
type Option struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
	Desc  string `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// CountOption is a selectable numeric value with a display label.
type CountOption struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is the full option set served to the wizard frontend.
type Catalog struct {
	RegulasiBasis     []Option            `yaml:"regulasiBasis" json:"regulasiBasis"`
	Jenjang           []string            `yaml:"jenjang" json:"jenjang"`
	Kelas             map[string][]string `yaml:"kelas" json:"kelas"`
	Languages         []string            `yaml:"languages" json:"languages"`
	JumlahOpsi        []CountOption       `yaml:"jumlahOpsi" json:"jumlahOpsi"`
	AnswerKeyVariants []Option            `yaml:"answerKeyVariants" json:"answerKeyVariants"`
	JenisSoalSekolah  []string            `yaml:"jenisSoalSekolah" json:"jenisSoalSekolah"`
	JenisSoalBimbel   []string            `yaml:"jenisSoalBimbel" json:"jenisSoalBimbel"`
	JenisStimulus     []string            `yaml:"jenisStimulus" json:"jenisStimulus"`
	GayaBahasa        []string            `yaml:"gayaBahasa" json:"gayaBahasa"`
	Levels            []string            `yaml:"levels" json:"levels"`
	Kurikulum         []string            `yaml:"kurikulum" json:"kurikulum"`
	UserTypes         []string            `yaml:"userTypes" json:"userTypes"`
	SemesterSekolah   []string            `yaml:"semesterSekolah" json:"semesterSekolah"`
	SemesterBimbel    []string            `yaml:"semesterBimbel" json:"semesterBimbel"`
	Mapel             []string            `yaml:"mapel" json:"mapel"`
	DistribusiPresets []Option            `yaml:"distribusiPresets" json:"distribusiPresets"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return &c, nil
}

// IsBimbel reports whether a user type selects the tutoring-center variant
// of the question-type and assessment-context lists.
func IsBimbel(userType string) bool {
	return strings.Contains(strings.ToLower(userType), "bimbel")
}

// KelasFor returns the grades available for a school level, nil when the
// level is unknown.
func (c *Catalog) KelasFor(jenjang string) []string {
	return c.Kelas[jenjang]
}

// JenisSoalFor returns the question types offered to a user type.
func (c *Catalog) JenisSoalFor(userType string) []string {
	if IsBimbel(userType) {
		return c.JenisSoalBimbel
	}
	return c.JenisSoalSekolah
}

// SemesterFor returns the assessment contexts offered to a user type.
func (c *Catalog) SemesterFor(userType string) []string {
	if IsBimbel(userType) {
		return c.SemesterBimbel
	}
	return c.SemesterSekolah
}

// ValidJenjang reports whether the school level is one of the known ones.
func (c *Catalog) ValidJenjang(jenjang string) bool {
	return slices.Contains(c.Jenjang, jenjang)
}

// ValidKelas reports whether the grade belongs to the school level.
func (c *Catalog) ValidKelas(jenjang, kelas string) bool {
	return slices.Contains(c.Kelas[jenjang], kelas)
}

// ValidJenisSoal reports whether every requested question type exists in
// the list offered to the user type.
func (c *Catalog) ValidJenisSoal(userType string, jenis []string) bool {
	offered := c.JenisSoalFor(userType)
	for _, j := range jenis {
		if !slices.Contains(offered, j) {
			return false
		}
	}
	return true
}

// RegulasiLabel returns the display label for a regulation basis id, or the
// id itself when it is not in the catalog.
func (c *Catalog) RegulasiLabel(id string) string {
	for _, o := range c.RegulasiBasis {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}
