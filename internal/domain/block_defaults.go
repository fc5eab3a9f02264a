package domain

import "fmt"

const (
	DefaultHeadingText = "Your Heading Here"
	DefaultText        = "Enter your text here. You can style this text using the properties panel."
	DefaultFooterText  = "© 2026 Your Company. All rights reserved.\nUnsubscribe | Privacy Policy"
	DefaultQuoteText   = "Your quoted text here..."
)

// NewBlock builds a block of the given kind with its creation defaults.
// Design-system driven fields are left unset so token values apply.
func NewBlock(t BlockType, id string) (Block, error) {
	switch t {
	case BlockTypeHeading:
		return HeadingBlock{
			ID:      id,
			Content: NewTextDoc(DefaultHeadingText),
			Level:   1,
			Align:   AlignCenter,
		}, nil
	case BlockTypeText:
		return TextBlock{
			ID:      id,
			Content: NewTextDoc(DefaultText),
			Align:   AlignCenter,
		}, nil
	case BlockTypeImage:
		return ImageBlock{
			ID:     id,
			Alt:    "Image description",
			Width:  600,
			Height: 300,
			Align:  AlignCenter,
		}, nil
	case BlockTypeButton:
		return ButtonBlock{
			ID:    id,
			Text:  "Click Here",
			URL:   "#",
			Align: AlignCenter,
		}, nil
	case BlockTypeHeader:
		return HeaderBlock{
			ID:        id,
			BrandName: "Your Brand",
			ShowBadge: true,
		}, nil
	case BlockTypeColumns:
		return ColumnsBlock{
			ID:      id,
			Columns: 2,
			Gap:     16,
			Content: []BlockList{{}, {}},
		}, nil
	case BlockTypeDivider:
		return DividerBlock{ID: id}, nil
	case BlockTypeSpacer:
		return SpacerBlock{ID: id, Height: 32}, nil
	case BlockTypeSocialLinks:
		return SocialLinksBlock{
			ID: id,
			Links: []SocialLink{
				{Platform: PlatformTwitter, URL: "https://twitter.com"},
				{Platform: PlatformFacebook, URL: "https://facebook.com"},
				{Platform: PlatformInstagram, URL: "https://instagram.com"},
			},
			IconSize: 24,
			Align:    AlignCenter,
		}, nil
	case BlockTypeFooter:
		return FooterBlock{
			ID:      id,
			Content: NewTextDoc(DefaultFooterText),
			Align:   AlignCenter,
		}, nil
	case BlockTypeList:
		return ListBlock{
			ID:       id,
			Content:  NewListDoc(NodeBulletList, "List item 1", "List item 2"),
			ListType: ListBullet,
			Align:    AlignLeft,
		}, nil
	case BlockTypeBlockquote:
		return BlockquoteBlock{
			ID: id,
			Content: Node{Type: NodeDoc, Content: []Node{{
				Type:    NodeBlockquote,
				Content: NewTextDoc(DefaultQuoteText).Content,
			}}},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
}
