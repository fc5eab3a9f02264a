package domain

const (
	PresetModernMinimal = "modern-minimal"
	PresetBoldCorporate = "bold-corporate"
	PresetWarmFriendly  = "warm-friendly"
)

const (
	fontArial   = "Arial, Helvetica, sans-serif"
	fontGeorgia = "Georgia, Times New Roman, serif"
)

// DefaultTokens is the token record used when no design system is active.
func DefaultTokens() Tokens {
	return Tokens{
		Heading:    HeadingTokens{Color: "#000000", FontFamily: fontArial, FontWeight: "700"},
		Text:       TextTokens{Color: "#374151", FontFamily: fontArial, FontSize: 16, LineHeight: 1.6},
		Button:     ButtonTokens{BackgroundColor: "#000000", TextColor: "#ffffff", BorderRadius: 4, FontFamily: fontArial},
		Divider:    DividerTokens{Color: "#e5e7eb", Thickness: 1, Style: DividerSolid},
		Footer:     FooterTokens{Color: "#6b7280", FontFamily: fontArial, FontSize: 14},
		List:       ListTokens{Color: "#374151", FontFamily: fontArial},
		Blockquote: BlockquoteTokens{Color: "#6b7280", BorderColor: "#e5e7eb", FontFamily: fontGeorgia},
		Global:     GlobalTokens{BackgroundColor: "#f3f4f6", ContentWidth: 600, FontFamily: fontArial},
	}
}

// Presets returns the built-in design systems. Each call returns fresh
// values so callers can't alter the originals.
func Presets() []DesignSystem {
	return []DesignSystem{
		{
			ID:   PresetModernMinimal,
			Name: "Modern Minimal",
			Tokens: Tokens{
				Heading:    HeadingTokens{Color: "#111827", FontFamily: fontArial, FontWeight: "600"},
				Text:       TextTokens{Color: "#374151", FontFamily: fontArial, FontSize: 16, LineHeight: 1.7},
				Button:     ButtonTokens{BackgroundColor: "#111827", TextColor: "#ffffff", BorderRadius: 6, FontFamily: fontArial},
				Divider:    DividerTokens{Color: "#e5e7eb", Thickness: 1, Style: DividerSolid},
				Footer:     FooterTokens{Color: "#9ca3af", FontFamily: fontArial, FontSize: 12},
				List:       ListTokens{Color: "#374151", FontFamily: fontArial},
				Blockquote: BlockquoteTokens{Color: "#6b7280", BorderColor: "#d1d5db", FontFamily: fontGeorgia},
				Global:     GlobalTokens{BackgroundColor: "#ffffff", ContentWidth: 600, FontFamily: fontArial},
			},
		},
		{
			ID:   PresetBoldCorporate,
			Name: "Bold Corporate",
			Tokens: Tokens{
				Heading:    HeadingTokens{Color: "#1e3a8a", FontFamily: fontArial, FontWeight: "800"},
				Text:       TextTokens{Color: "#1f2937", FontFamily: fontArial, FontSize: 16, LineHeight: 1.6},
				Button:     ButtonTokens{BackgroundColor: "#2563eb", TextColor: "#ffffff", BorderRadius: 4, FontFamily: fontArial},
				Divider:    DividerTokens{Color: "#3b82f6", Thickness: 2, Style: DividerSolid},
				Footer:     FooterTokens{Color: "#6b7280", FontFamily: fontArial, FontSize: 12},
				List:       ListTokens{Color: "#1f2937", FontFamily: fontArial},
				Blockquote: BlockquoteTokens{Color: "#1e40af", BorderColor: "#3b82f6", FontFamily: fontGeorgia},
				Global:     GlobalTokens{BackgroundColor: "#f8fafc", ContentWidth: 600, FontFamily: fontArial},
			},
		},
		{
			ID:   PresetWarmFriendly,
			Name: "Warm & Friendly",
			Tokens: Tokens{
				Heading:    HeadingTokens{Color: "#92400e", FontFamily: fontGeorgia, FontWeight: "700"},
				Text:       TextTokens{Color: "#78350f", FontFamily: fontGeorgia, FontSize: 17, LineHeight: 1.8},
				Button:     ButtonTokens{BackgroundColor: "#f59e0b", TextColor: "#78350f", BorderRadius: 24, FontFamily: fontGeorgia},
				Divider:    DividerTokens{Color: "#fcd34d", Thickness: 1, Style: DividerDashed},
				Footer:     FooterTokens{Color: "#a16207", FontFamily: fontGeorgia, FontSize: 13},
				List:       ListTokens{Color: "#78350f", FontFamily: fontGeorgia},
				Blockquote: BlockquoteTokens{Color: "#92400e", BorderColor: "#fbbf24", FontFamily: fontGeorgia},
				Global:     GlobalTokens{BackgroundColor: "#fffbeb", ContentWidth: 560, FontFamily: fontGeorgia},
			},
		},
	}
}

func IsPreset(id string) bool {
	_, ok := FindPreset(id)
	return ok
}

func FindPreset(id string) (DesignSystem, bool) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, true
		}
	}
	return DesignSystem{}, false
}
