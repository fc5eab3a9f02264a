package domain

import "errors"

type BlockType string

const (
	BlockTypeHeading     BlockType = "heading"
	BlockTypeText        BlockType = "text"
	BlockTypeImage       BlockType = "image"
	BlockTypeButton      BlockType = "button"
	BlockTypeHeader      BlockType = "header"
	BlockTypeColumns     BlockType = "columns"
	BlockTypeDivider     BlockType = "divider"
	BlockTypeSpacer      BlockType = "spacer"
	BlockTypeSocialLinks BlockType = "social-links"
	BlockTypeFooter      BlockType = "footer"
	BlockTypeList        BlockType = "list"
	BlockTypeBlockquote  BlockType = "blockquote"
)

var (
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrBlockNotFound    = errors.New("block not found")
	ErrInvalidPatch     = errors.New("invalid block patch")
)

// BlockTypes lists every block kind in palette order.
func BlockTypes() []BlockType {
	return []BlockType{
		BlockTypeHeading, BlockTypeText, BlockTypeImage, BlockTypeButton,
		BlockTypeHeader, BlockTypeColumns, BlockTypeDivider, BlockTypeSpacer,
		BlockTypeSocialLinks, BlockTypeFooter, BlockTypeList, BlockTypeBlockquote,
	}
}

// Valid reports whether t names a known block kind.
func (t BlockType) Valid() bool {
	for _, k := range BlockTypes() {
		if k == t {
			return true
		}
	}
	return false
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

type ListType string

const (
	ListBullet  ListType = "bullet"
	ListOrdered ListType = "ordered"
)

type DividerStyle string

const (
	DividerSolid  DividerStyle = "solid"
	DividerDashed DividerStyle = "dashed"
	DividerDotted DividerStyle = "dotted"
)

type SocialPlatform string

const (
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformLinkedIn  SocialPlatform = "linkedin"
	PlatformYouTube   SocialPlatform = "youtube"
)

// Block is one addressable unit of email content. The set of
// implementations is closed: only the variants in this package satisfy it.
type Block interface {
	BlockID() string
	Kind() BlockType
	clone() Block
}

// Style-capable fields that a design system can drive are pointers: nil
// means "use the token value".

type HeadingBlock struct {
	ID      string  `json:"id"`
	Content Node    `json:"content"`
	Level   int     `json:"level"`
	Align   Align   `json:"align"`
	Color   *string `json:"color,omitempty"`
}

type TextBlock struct {
	ID      string  `json:"id"`
	Content Node    `json:"content"`
	Align   Align   `json:"align"`
	Color   *string `json:"color,omitempty"`
}

type ImageBlock struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Align  Align  `json:"align"`
}

type ButtonBlock struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	URL             string  `json:"url"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
	BorderRadius    *int    `json:"borderRadius,omitempty"`
	Align           Align   `json:"align"`
}

type HeaderBlock struct {
	ID        string `json:"id"`
	LogoSrc   string `json:"logoSrc"`
	BrandName string `json:"brandName"`
	ShowBadge bool   `json:"showBadge"`
}

// ColumnsBlock holds one block sequence per column. The editor only ever
// nests one level deep, but the model allows more.
type ColumnsBlock struct {
	ID      string      `json:"id"`
	Columns int         `json:"columns"`
	Gap     int         `json:"gap"`
	Content []BlockList `json:"content"`
}

type DividerBlock struct {
	ID        string        `json:"id"`
	Color     *string       `json:"color,omitempty"`
	Thickness *int          `json:"thickness,omitempty"`
	Style     *DividerStyle `json:"style,omitempty"`
}

type SpacerBlock struct {
	ID     string `json:"id"`
	Height int    `json:"height"`
}

type SocialLink struct {
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
}

type SocialLinksBlock struct {
	ID       string       `json:"id"`
	Links    []SocialLink `json:"links"`
	IconSize int          `json:"iconSize"`
	Align    Align        `json:"align"`
}

type FooterBlock struct {
	ID      string  `json:"id"`
	Content Node    `json:"content"`
	Align   Align   `json:"align"`
	Color   *string `json:"color,omitempty"`
}

type ListBlock struct {
	ID       string   `json:"id"`
	Content  Node     `json:"content"`
	ListType ListType `json:"listType"`
	Align    Align    `json:"align,omitempty"`
	Color    *string  `json:"color,omitempty"`
}

type BlockquoteBlock struct {
	ID      string  `json:"id"`
	Content Node    `json:"content"`
	Color   *string `json:"color,omitempty"`
}

func (b HeadingBlock) BlockID() string     { return b.ID }
func (b TextBlock) BlockID() string        { return b.ID }
func (b ImageBlock) BlockID() string       { return b.ID }
func (b ButtonBlock) BlockID() string      { return b.ID }
func (b HeaderBlock) BlockID() string      { return b.ID }
func (b ColumnsBlock) BlockID() string     { return b.ID }
func (b DividerBlock) BlockID() string     { return b.ID }
func (b SpacerBlock) BlockID() string      { return b.ID }
func (b SocialLinksBlock) BlockID() string { return b.ID }
func (b FooterBlock) BlockID() string      { return b.ID }
func (b ListBlock) BlockID() string        { return b.ID }
func (b BlockquoteBlock) BlockID() string  { return b.ID }

func (HeadingBlock) Kind() BlockType     { return BlockTypeHeading }
func (TextBlock) Kind() BlockType        { return BlockTypeText }
func (ImageBlock) Kind() BlockType       { return BlockTypeImage }
func (ButtonBlock) Kind() BlockType      { return BlockTypeButton }
func (HeaderBlock) Kind() BlockType      { return BlockTypeHeader }
func (ColumnsBlock) Kind() BlockType     { return BlockTypeColumns }
func (DividerBlock) Kind() BlockType     { return BlockTypeDivider }
func (SpacerBlock) Kind() BlockType      { return BlockTypeSpacer }
func (SocialLinksBlock) Kind() BlockType { return BlockTypeSocialLinks }
func (FooterBlock) Kind() BlockType      { return BlockTypeFooter }
func (ListBlock) Kind() BlockType        { return BlockTypeList }
func (BlockquoteBlock) Kind() BlockType  { return BlockTypeBlockquote }

// ── cloning ────────────────────────────────────────────────

func (b HeadingBlock) clone() Block {
	b.Content = b.Content.Clone()
	b.Color = clonePtr(b.Color)
	return b
}

func (b TextBlock) clone() Block {
	b.Content = b.Content.Clone()
	b.Color = clonePtr(b.Color)
	return b
}

func (b ImageBlock) clone() Block  { return b }
func (b HeaderBlock) clone() Block { return b }
func (b SpacerBlock) clone() Block { return b }

func (b ButtonBlock) clone() Block {
	b.BackgroundColor = clonePtr(b.BackgroundColor)
	b.TextColor = clonePtr(b.TextColor)
	b.BorderRadius = clonePtr(b.BorderRadius)
	return b
}

func (b ColumnsBlock) clone() Block {
	if b.Content != nil {
		content := make([]BlockList, len(b.Content))
		for i, col := range b.Content {
			content[i] = col.Clone()
		}
		b.Content = content
	}
	return b
}

func (b DividerBlock) clone() Block {
	b.Color = clonePtr(b.Color)
	b.Thickness = clonePtr(b.Thickness)
	b.Style = clonePtr(b.Style)
	return b
}

func (b SocialLinksBlock) clone() Block {
	if b.Links != nil {
		b.Links = append([]SocialLink(nil), b.Links...)
	}
	return b
}

func (b FooterBlock) clone() Block {
	b.Content = b.Content.Clone()
	b.Color = clonePtr(b.Color)
	return b
}

func (b ListBlock) clone() Block {
	b.Content = b.Content.Clone()
	b.Color = clonePtr(b.Color)
	return b
}

func (b BlockquoteBlock) clone() Block {
	b.Content = b.Content.Clone()
	b.Color = clonePtr(b.Color)
	return b
}

// CloneBlock returns a deep copy of b that shares no memory with it.
func CloneBlock(b Block) Block {
	if b == nil {
		return nil
	}
	return b.clone()
}

// ContentOf returns the rich-text tree of a content-bearing block.
func ContentOf(b Block) (Node, bool) {
	switch v := b.(type) {
	case HeadingBlock:
		return v.Content, true
	case TextBlock:
		return v.Content, true
	case FooterBlock:
		return v.Content, true
	case ListBlock:
		return v.Content, true
	case BlockquoteBlock:
		return v.Content, true
	}
	return Node{}, false
}

// BlockList is an ordered block sequence. It decodes its elements through
// the type discriminant and always encodes as a JSON array.
type BlockList []Block

func (l BlockList) Clone() BlockList {
	out := make(BlockList, len(l))
	for i, b := range l {
		out[i] = CloneBlock(b)
	}
	return out
}

// Index returns the position of the block with the given id, or -1.
func (l BlockList) Index(id string) int {
	for i, b := range l {
		if b.BlockID() == id {
			return i
		}
	}
	return -1
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for setting optional overrides.
func Ptr[T any](v T) *T {
	return &v
}
