package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidTokens = errors.New("invalid design tokens")

// Email-safe font stacks offered by the editor.
var FontFamilies = []string{
	"Arial, Helvetica, sans-serif",
	"Georgia, Times New Roman, serif",
	"Verdana, Geneva, sans-serif",
	"Trebuchet MS, sans-serif",
	"Courier New, monospace",
	"Tahoma, sans-serif",
}

var FontWeights = []string{"400", "500", "600", "700", "800"}

type HeadingTokens struct {
	Color      string `json:"color" yaml:"color"`
	FontFamily string `json:"fontFamily" yaml:"fontFamily"`
	FontWeight string `json:"fontWeight" yaml:"fontWeight"`
}

type TextTokens struct {
	Color      string  `json:"color" yaml:"color"`
	FontFamily string  `json:"fontFamily" yaml:"fontFamily"`
	FontSize   int     `json:"fontSize" yaml:"fontSize"`
	LineHeight float64 `json:"lineHeight" yaml:"lineHeight"`
}

type ButtonTokens struct {
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	TextColor       string `json:"textColor" yaml:"textColor"`
	BorderRadius    int    `json:"borderRadius" yaml:"borderRadius"`
	FontFamily      string `json:"fontFamily" yaml:"fontFamily"`
}

type DividerTokens struct {
	Color     string       `json:"color" yaml:"color"`
	Thickness int          `json:"thickness" yaml:"thickness"`
	Style     DividerStyle `json:"style" yaml:"style"`
}

type FooterTokens struct {
	Color      string `json:"color" yaml:"color"`
	FontFamily string `json:"fontFamily" yaml:"fontFamily"`
	FontSize   int    `json:"fontSize" yaml:"fontSize"`
}

type ListTokens struct {
	Color      string `json:"color" yaml:"color"`
	FontFamily string `json:"fontFamily" yaml:"fontFamily"`
}

type BlockquoteTokens struct {
	Color       string `json:"color" yaml:"color"`
	BorderColor string `json:"borderColor" yaml:"borderColor"`
	FontFamily  string `json:"fontFamily" yaml:"fontFamily"`
}

type GlobalTokens struct {
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	ContentWidth    int    `json:"contentWidth" yaml:"contentWidth"`
	FontFamily      string `json:"fontFamily" yaml:"fontFamily"`
}

// Tokens is the complete token record of a design system.
type Tokens struct {
	Heading    HeadingTokens    `json:"heading" yaml:"heading"`
	Text       TextTokens       `json:"text" yaml:"text"`
	Button     ButtonTokens     `json:"button" yaml:"button"`
	Divider    DividerTokens    `json:"divider" yaml:"divider"`
	Footer     FooterTokens     `json:"footer" yaml:"footer"`
	List       ListTokens       `json:"list" yaml:"list"`
	Blockquote BlockquoteTokens `json:"blockquote" yaml:"blockquote"`
	Global     GlobalTokens     `json:"global" yaml:"global"`
}

// DesignSystem is a named token set. Timestamps are unix milliseconds;
// presets carry zero timestamps.
type DesignSystem struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Tokens    Tokens `json:"tokens" yaml:"tokens"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" yaml:"updatedAt"`
}

// TokensPatch is a partial token update keyed by category then field,
// e.g. {"button": {"borderRadius": 8}}.
type TokensPatch map[string]map[string]any

// MergeTokens applies patch on top of base category by category. Fields not
// named in the patch keep their base value. Unknown categories or fields and
// out-of-range values are rejected.
func MergeTokens(base Tokens, patch TokensPatch) (Tokens, error) {
	if len(patch) == 0 {
		return base, nil
	}
	data, err := json.Marshal(base)
	if err != nil {
		return base, fmt.Errorf("encode tokens: %w", err)
	}
	var tree map[string]map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return base, fmt.Errorf("decode tokens: %w", err)
	}
	for category, fields := range patch {
		cur, ok := tree[category]
		if !ok {
			return base, fmt.Errorf("%w: unknown token category %q", ErrInvalidTokens, category)
		}
		for k, v := range fields {
			if _, ok := cur[k]; !ok {
				return base, fmt.Errorf("%w: unknown %s token %q", ErrInvalidTokens, category, k)
			}
			if v == nil {
				continue
			}
			cur[k] = v
		}
	}
	data, err = json.Marshal(tree)
	if err != nil {
		return base, fmt.Errorf("encode merged tokens: %w", err)
	}
	var out Tokens
	if err := json.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidTokens, err)
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}

// Validate checks the enumerated and sized token fields.
func (t Tokens) Validate() error {
	switch t.Divider.Style {
	case DividerSolid, DividerDashed, DividerDotted:
	default:
		return fmt.Errorf("%w: divider style %q", ErrInvalidTokens, t.Divider.Style)
	}
	if !slices.Contains(FontWeights, t.Heading.FontWeight) {
		return fmt.Errorf("%w: heading font weight %q", ErrInvalidTokens, t.Heading.FontWeight)
	}
	if t.Global.ContentWidth <= 0 {
		return fmt.Errorf("%w: content width %d", ErrInvalidTokens, t.Global.ContentWidth)
	}
	return nil
}
