package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Every variant encodes with its "type" discriminant first.

func (b HeadingBlock) MarshalJSON() ([]byte, error) {
	type alias HeadingBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeHeading, alias(b)})
}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeText, alias(b)})
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	type alias ImageBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeImage, alias(b)})
}

func (b ButtonBlock) MarshalJSON() ([]byte, error) {
	type alias ButtonBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeButton, alias(b)})
}

func (b HeaderBlock) MarshalJSON() ([]byte, error) {
	type alias HeaderBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeHeader, alias(b)})
}

func (b ColumnsBlock) MarshalJSON() ([]byte, error) {
	type alias ColumnsBlock
	if b.Content == nil {
		b.Content = []BlockList{}
	}
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeColumns, alias(b)})
}

func (b DividerBlock) MarshalJSON() ([]byte, error) {
	type alias DividerBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeDivider, alias(b)})
}

func (b SpacerBlock) MarshalJSON() ([]byte, error) {
	type alias SpacerBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeSpacer, alias(b)})
}

func (b SocialLinksBlock) MarshalJSON() ([]byte, error) {
	type alias SocialLinksBlock
	if b.Links == nil {
		b.Links = []SocialLink{}
	}
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeSocialLinks, alias(b)})
}

func (b FooterBlock) MarshalJSON() ([]byte, error) {
	type alias FooterBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeFooter, alias(b)})
}

func (b ListBlock) MarshalJSON() ([]byte, error) {
	type alias ListBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeList, alias(b)})
}

func (b BlockquoteBlock) MarshalJSON() ([]byte, error) {
	type alias BlockquoteBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockTypeBlockquote, alias(b)})
}

// UnmarshalBlock decodes a single block, dispatching on its "type" field.
func UnmarshalBlock(data []byte) (Block, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}

	var (
		b   Block
		err error
	)
	switch head.Type {
	case BlockTypeHeading:
		b, err = decodeAs[HeadingBlock](data)
	case BlockTypeText:
		b, err = decodeAs[TextBlock](data)
	case BlockTypeImage:
		b, err = decodeAs[ImageBlock](data)
	case BlockTypeButton:
		b, err = decodeAs[ButtonBlock](data)
	case BlockTypeHeader:
		b, err = decodeAs[HeaderBlock](data)
	case BlockTypeColumns:
		b, err = decodeAs[ColumnsBlock](data)
		if err == nil {
			cols := b.(ColumnsBlock)
			cols.Content = cols.Cells()
			b = cols
		}
	case BlockTypeDivider:
		b, err = decodeAs[DividerBlock](data)
	case BlockTypeSpacer:
		b, err = decodeAs[SpacerBlock](data)
	case BlockTypeSocialLinks:
		b, err = decodeAs[SocialLinksBlock](data)
	case BlockTypeFooter:
		b, err = decodeAs[FooterBlock](data)
	case BlockTypeList:
		b, err = decodeAs[ListBlock](data)
	case BlockTypeBlockquote:
		b, err = decodeAs[BlockquoteBlock](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s block: %w", head.Type, err)
	}
	return b, nil
}

// decodeAs unmarshals into T. The variants have no UnmarshalJSON of their
// own, so the "type" key is simply ignored here.
func decodeAs[T Block](data []byte) (Block, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (l BlockList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Block(l))
}

func (l *BlockList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = BlockList{}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode block list: %w", err)
	}
	out := make(BlockList, 0, len(raw))
	for i, r := range raw {
		b, err := UnmarshalBlock(r)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, b)
	}
	*l = out
	return nil
}
