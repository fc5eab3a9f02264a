package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"emailbuilder/internal/domain"
)

// BrandKit is the portable YAML form of a design system. Ids and
// timestamps are not carried; an imported kit becomes a new system.
type BrandKit struct {
	Name   string        `yaml:"name"`
	Tokens domain.Tokens `yaml:"tokens"`
}

// DecodeBrandKit parses a brand kit. Token fields the kit leaves out keep
// their default values.
func DecodeBrandKit(r io.Reader) (BrandKit, error) {
	kit := BrandKit{Tokens: domain.DefaultTokens()}
	if err := yaml.NewDecoder(r).Decode(&kit); err != nil {
		if errors.Is(err, io.EOF) {
			return BrandKit{}, errors.New("decode brand kit: empty document")
		}
		return BrandKit{}, fmt.Errorf("decode brand kit: %w", err)
	}
	kit.Name = strings.TrimSpace(kit.Name)
	if kit.Name == "" {
		return BrandKit{}, errors.New("decode brand kit: name is required")
	}
	if err := kit.Tokens.Validate(); err != nil {
		return BrandKit{}, fmt.Errorf("decode brand kit: %w", err)
	}
	return kit, nil
}

// EncodeBrandKit writes ds as a brand kit.
func EncodeBrandKit(w io.Writer, ds domain.DesignSystem) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BrandKit{Name: ds.Name, Tokens: ds.Tokens}); err != nil {
		return fmt.Errorf("encode brand kit: %w", err)
	}
	return enc.Close()
}

// ReadBrandKit decodes the brand kit file at path.
func ReadBrandKit(path string) (BrandKit, error) {
	f, err := os.Open(path)
	if err != nil {
		return BrandKit{}, fmt.Errorf("open brand kit: %w", err)
	}
	defer f.Close()
	return DecodeBrandKit(f)
}

// WriteBrandKit writes ds to path, replacing any existing file.
func WriteBrandKit(path string, ds domain.DesignSystem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create brand kit: %w", err)
	}
	if err := EncodeBrandKit(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
