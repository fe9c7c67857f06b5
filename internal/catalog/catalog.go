// Package catalog loads the static data tables (risk factors, lab tests,
// symptoms, conditions, exercises, beverages) from YAML. The tables ship
// embedded in the binary; a data directory may override any file.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/Skufu/vitalcalc/internal/labs"
	"github.com/Skufu/vitalcalc/internal/risk"
	"github.com/Skufu/vitalcalc/internal/symptoms"
	"github.com/Skufu/vitalcalc/internal/workout"
)

//go:embed data/*.yaml
var embedded embed.FS

// Files lists the table files in load order.
var Files = []string{"factors.yaml", "labs.yaml", "conditions.yaml", "exercises.yaml", "beverages.yaml"}

// Beverage is one entry of the caffeine table.
type Beverage struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Serving string  `json:"serving" yaml:"serving"`
	Mg      float64 `json:"mg" yaml:"mg"`
}

// Catalog is one consistent set of tables.
type Catalog struct {
	Factors         []risk.Factor        `yaml:"factors"`
	Recommendations risk.Recommendations `yaml:"recommendations"`
	Labs            []labs.Test          `yaml:"labs"`
	Symptoms        []symptoms.Symptom   `yaml:"symptoms"`
	Conditions      []symptoms.Condition `yaml:"conditions"`
	Exercises       []workout.Exercise   `yaml:"exercises"`
	Beverages       []Beverage           `yaml:"beverages"`

	labIndex map[string]labs.Test
	caffeine map[string]float64
	digest   string
}

// Load reads every table, taking a file from dir when dir is set and holds
// it, else from the embedded defaults. The result is validated.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{}
	h := xxhash.New()
	for _, name := range Files {
		data, err := readTable(dir, name)
		if err != nil {
			return nil, err
		}
		h.Write(data)
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.index()
	c.digest = strconv.FormatUint(h.Sum64(), 16)
	return c, nil
}

// MustDefault loads the embedded tables and panics if they are broken.
func MustDefault() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func readTable(dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s: %w", name, err)
	}
	return data, nil
}

// Validate checks every table and the references between them.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	categories := make(map[string]bool)
	for _, f := range c.Factors {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate factor %q", f.ID)
		}
		seen[f.ID] = true
		categories[f.Category] = true
	}
	for cat := range c.Recommendations {
		if !categories[cat] {
			return fmt.Errorf("recommendations for unknown category %q", cat)
		}
	}

	seen = make(map[string]bool)
	for _, t := range c.Labs {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate lab test %q", t.ID)
		}
		seen[t.ID] = true
	}

	if err := symptoms.ValidateTables(c.Symptoms, c.Conditions); err != nil {
		return err
	}

	seen = make(map[string]bool)
	for _, e := range c.Exercises {
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate exercise %q", e.ID)
		}
		seen[e.ID] = true
	}

	seen = make(map[string]bool)
	for _, b := range c.Beverages {
		if b.ID == "" || b.Mg < 0 {
			return fmt.Errorf("invalid beverage %q", b.ID)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate beverage %q", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

func (c *Catalog) index() {
	c.labIndex = make(map[string]labs.Test, len(c.Labs))
	for _, t := range c.Labs {
		c.labIndex[t.ID] = t
	}
	c.caffeine = make(map[string]float64, len(c.Beverages))
	for _, b := range c.Beverages {
		c.caffeine[b.ID] = b.Mg
	}
}

// Digest identifies the table contents; it changes whenever a file does.
func (c *Catalog) Digest() string {
	return c.digest
}

// LabTest looks up a lab test by id.
func (c *Catalog) LabTest(id string) (labs.Test, error) {
	t, ok := c.labIndex[id]
	if !ok {
		return labs.Test{}, fmt.Errorf("%w: %s", labs.ErrUnknownTest, id)
	}
	return t, nil
}

// LabIndex returns the lab tests keyed by id.
func (c *Catalog) LabIndex() map[string]labs.Test {
	return c.labIndex
}

// CaffeineTable returns mg of caffeine per serving keyed by beverage id.
func (c *Catalog) CaffeineTable() map[string]float64 {
	return c.caffeine
}

// Holder publishes the current catalog to concurrent readers.
type Holder struct {
	p atomic.Pointer[Catalog]
}

// NewHolder returns a holder serving c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.p.Store(c)
	return h
}

// Get returns the current catalog.
func (h *Holder) Get() *Catalog {
	return h.p.Load()
}

// Swap replaces the current catalog.
func (h *Holder) Swap(c *Catalog) {
	h.p.Store(c)
}
