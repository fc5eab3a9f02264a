// Package style resolves the final style values of a block from its
// overrides and the active token record.
package style

import "emailbuilder/internal/domain"

// Resolved holds the style values a block contributes. Fields a block type
// doesn't map stay at their zero value.
type Resolved struct {
	Color           string              `json:"color,omitempty"`
	BackgroundColor string              `json:"backgroundColor,omitempty"`
	TextColor       string              `json:"textColor,omitempty"`
	BorderColor     string              `json:"borderColor,omitempty"`
	BorderRadius    int                 `json:"borderRadius,omitempty"`
	FontFamily      string              `json:"fontFamily,omitempty"`
	FontSize        int                 `json:"fontSize,omitempty"`
	FontWeight      string              `json:"fontWeight,omitempty"`
	LineHeight      float64             `json:"lineHeight,omitempty"`
	Thickness       int                 `json:"thickness,omitempty"`
	Style           domain.DividerStyle `json:"style,omitempty"`
}

// IsZero reports whether nothing was resolved.
func (r Resolved) IsZero() bool {
	return r == Resolved{}
}

// TokensFor picks the token record to resolve against: the active design
// system's, or the defaults when none is active.
func TokensFor(active *domain.DesignSystem) domain.Tokens {
	if active == nil {
		return domain.DefaultTokens()
	}
	return active.Tokens
}

// Resolve applies override-over-token precedence for b. It never fails;
// block types that aren't design-system driven resolve to Resolved{}.
func Resolve(b domain.Block, t domain.Tokens) Resolved {
	switch v := b.(type) {
	case domain.HeadingBlock:
		return Resolved{
			Color:      pick(v.Color, t.Heading.Color),
			FontFamily: t.Heading.FontFamily,
			FontWeight: t.Heading.FontWeight,
		}
	case domain.TextBlock:
		return Resolved{
			Color:      pick(v.Color, t.Text.Color),
			FontFamily: t.Text.FontFamily,
			FontSize:   t.Text.FontSize,
			LineHeight: t.Text.LineHeight,
		}
	case domain.ButtonBlock:
		return Resolved{
			BackgroundColor: pick(v.BackgroundColor, t.Button.BackgroundColor),
			TextColor:       pick(v.TextColor, t.Button.TextColor),
			BorderRadius:    pick(v.BorderRadius, t.Button.BorderRadius),
			FontFamily:      t.Button.FontFamily,
		}
	case domain.DividerBlock:
		return Resolved{
			Color:     pick(v.Color, t.Divider.Color),
			Thickness: pick(v.Thickness, t.Divider.Thickness),
			Style:     pick(v.Style, t.Divider.Style),
		}
	case domain.FooterBlock:
		return Resolved{
			Color:      pick(v.Color, t.Footer.Color),
			FontFamily: t.Footer.FontFamily,
			FontSize:   t.Footer.FontSize,
		}
	case domain.ListBlock:
		return Resolved{
			Color:      pick(v.Color, t.List.Color),
			FontFamily: t.List.FontFamily,
		}
	case domain.BlockquoteBlock:
		return Resolved{
			Color:       pick(v.Color, t.Blockquote.Color),
			BorderColor: t.Blockquote.BorderColor,
			FontFamily:  t.Blockquote.FontFamily,
		}
	}
	return Resolved{}
}

func pick[T any](override *T, token T) T {
	if override != nil {
		return *override
	}
	return token
}
