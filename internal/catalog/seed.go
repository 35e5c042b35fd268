package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pricehunt/internal/barcode"
	"pricehunt/internal/model"

	"gopkg.in/yaml.v3"
)

// Seed is the YAML document describing stores and products with their offers.
type Seed struct {
	Stores   []model.Store `yaml:"stores"`
	Products []SeedProduct `yaml:"products"`
}

// SeedProduct is a product with the offers stores currently list for it.
type SeedProduct struct {
	model.Product `yaml:",inline"`
	Offers        []model.Offer `yaml:"offers"`
}

// LoadSeedFile reads and validates a seed file from disk.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer f.Close()

	seed, err := LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return seed, nil
}

// LoadSeed decodes and validates a seed document.
func LoadSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// validate checks referential integrity and fills offer back-references.
func (s *Seed) validate() error {
	stores := make(map[string]string, len(s.Stores))
	for _, st := range s.Stores {
		if st.ID == "" {
			return fmt.Errorf("store with empty id")
		}
		if _, dup := stores[st.ID]; dup {
			return fmt.Errorf("duplicate store id %q", st.ID)
		}
		stores[st.ID] = st.Name
	}

	seen := make(map[string]bool, len(s.Products))
	for i := range s.Products {
		p := &s.Products[i]
		if p.ID == "" {
			return fmt.Errorf("product %d: empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = true

		if p.Barcode != "" {
			code, _, err := barcode.Normalize(p.Barcode)
			if err != nil {
				return fmt.Errorf("product %q: invalid barcode %q", p.ID, p.Barcode)
			}
			p.Barcode = code
		}

		for j := range p.Offers {
			o := &p.Offers[j]
			name, ok := stores[o.StoreID]
			if !ok {
				return fmt.Errorf("product %q: unknown store %q", p.ID, o.StoreID)
			}
			if o.Price < 0 {
				return fmt.Errorf("product %q: negative price at store %q", p.ID, o.StoreID)
			}
			o.ProductID = p.ID
			o.StoreName = name
			o.Currency = strings.ToUpper(o.Currency)
			if o.Currency == "" {
				o.Currency = "USD"
			}
		}
	}
	return nil
}
