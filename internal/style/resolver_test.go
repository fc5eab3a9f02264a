package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/style"
)

func newBlock(t *testing.T, bt domain.BlockType) domain.Block {
	t.Helper()
	b, err := domain.NewBlock(bt, "blk-"+string(bt))
	require.NoError(t, err)
	return b
}

// ─────────────────────────────────────────────────────────────
// Token fallback
// ─────────────────────────────────────────────────────────────

func TestResolve_TokensWhenNoOverride(t *testing.T) {
	for _, ds := range append(domain.Presets(), domain.DesignSystem{ID: "default", Tokens: domain.DefaultTokens()}) {
		tok := ds.Tokens
		t.Run(ds.ID, func(t *testing.T) {
			assert.Equal(t, style.Resolved{
				Color: tok.Heading.Color, FontFamily: tok.Heading.FontFamily, FontWeight: tok.Heading.FontWeight,
			}, style.Resolve(newBlock(t, domain.BlockTypeHeading), tok))

			assert.Equal(t, style.Resolved{
				Color: tok.Text.Color, FontFamily: tok.Text.FontFamily,
				FontSize: tok.Text.FontSize, LineHeight: tok.Text.LineHeight,
			}, style.Resolve(newBlock(t, domain.BlockTypeText), tok))

			assert.Equal(t, style.Resolved{
				BackgroundColor: tok.Button.BackgroundColor, TextColor: tok.Button.TextColor,
				BorderRadius: tok.Button.BorderRadius, FontFamily: tok.Button.FontFamily,
			}, style.Resolve(newBlock(t, domain.BlockTypeButton), tok))

			assert.Equal(t, style.Resolved{
				Color: tok.Divider.Color, Thickness: tok.Divider.Thickness, Style: tok.Divider.Style,
			}, style.Resolve(newBlock(t, domain.BlockTypeDivider), tok))

			assert.Equal(t, style.Resolved{
				Color: tok.Footer.Color, FontFamily: tok.Footer.FontFamily, FontSize: tok.Footer.FontSize,
			}, style.Resolve(newBlock(t, domain.BlockTypeFooter), tok))

			assert.Equal(t, style.Resolved{
				Color: tok.List.Color, FontFamily: tok.List.FontFamily,
			}, style.Resolve(newBlock(t, domain.BlockTypeList), tok))

			assert.Equal(t, style.Resolved{
				Color: tok.Blockquote.Color, BorderColor: tok.Blockquote.BorderColor, FontFamily: tok.Blockquote.FontFamily,
			}, style.Resolve(newBlock(t, domain.BlockTypeBlockquote), tok))
		})
	}
}

func TestResolve_SelfContainedTypesAreEmpty(t *testing.T) {
	for _, bt := range []domain.BlockType{
		domain.BlockTypeImage, domain.BlockTypeHeader, domain.BlockTypeColumns,
		domain.BlockTypeSpacer, domain.BlockTypeSocialLinks,
	} {
		r := style.Resolve(newBlock(t, bt), domain.DefaultTokens())
		assert.True(t, r.IsZero(), "%s should resolve to nothing", bt)
	}
}

// ─────────────────────────────────────────────────────────────
// Override precedence
// ─────────────────────────────────────────────────────────────

func TestResolve_OverrideWins(t *testing.T) {
	bold, _ := domain.FindPreset(domain.PresetBoldCorporate)

	btn := newBlock(t, domain.BlockTypeButton).(domain.ButtonBlock)
	btn.BackgroundColor = domain.Ptr("#ff0000")
	btn.BorderRadius = domain.Ptr(0)
	r := style.Resolve(btn, bold.Tokens)
	assert.Equal(t, "#ff0000", r.BackgroundColor)
	assert.Equal(t, 0, r.BorderRadius)
	assert.Equal(t, bold.Tokens.Button.TextColor, r.TextColor)

	div := newBlock(t, domain.BlockTypeDivider).(domain.DividerBlock)
	div.Style = domain.Ptr(domain.DividerDotted)
	div.Thickness = domain.Ptr(3)
	r = style.Resolve(div, bold.Tokens)
	assert.Equal(t, domain.DividerDotted, r.Style)
	assert.Equal(t, 3, r.Thickness)
	assert.Equal(t, bold.Tokens.Divider.Color, r.Color)

	for _, bt := range []domain.BlockType{
		domain.BlockTypeHeading, domain.BlockTypeText, domain.BlockTypeFooter,
		domain.BlockTypeList, domain.BlockTypeBlockquote,
	} {
		b, err := domain.ApplyPatch(newBlock(t, bt), domain.Patch{"color": "#123456"})
		require.NoError(t, err)
		assert.Equal(t, "#123456", style.Resolve(b, bold.Tokens).Color, bt)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	b := newBlock(t, domain.BlockTypeText)
	tok := domain.DefaultTokens()
	assert.Equal(t, style.Resolve(b, tok), style.Resolve(b, tok))
}

func TestTokensFor(t *testing.T) {
	assert.Equal(t, domain.DefaultTokens(), style.TokensFor(nil))
	warm, _ := domain.FindPreset(domain.PresetWarmFriendly)
	assert.Equal(t, warm.Tokens, style.TokensFor(&warm))
}
