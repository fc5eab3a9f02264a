package domain

import (
	"encoding/json"
	"fmt"
)

// Patch is a partial update expressed as a JSON merge patch: present keys
// replace the field, a nil value clears it. "id" and "type" are ignored.
type Patch map[string]any

// ApplyPatch returns a new block with patch applied on top of b.
func ApplyPatch(b Block, patch Patch) (Block, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil block", ErrInvalidPatch)
	}
	fields, err := toFields(b)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k == "id" || k == "type" {
			continue
		}
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	out, err := UnmarshalBlock(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	out = normalize(b, out)
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the enumerated fields of a block. Nested column blocks are
// checked too.
func Validate(b Block) error {
	switch v := b.(type) {
	case HeadingBlock:
		if v.Level < 1 || v.Level > 3 {
			return fmt.Errorf("%w: heading level %d", ErrInvalidPatch, v.Level)
		}
		return validateAlign(v.Align)
	case TextBlock:
		return validateAlign(v.Align)
	case FooterBlock:
		return validateAlign(v.Align)
	case ImageBlock:
		return validateAlign(v.Align)
	case ButtonBlock:
		return validateAlign(v.Align)
	case SocialLinksBlock:
		return validateAlign(v.Align)
	case ListBlock:
		if v.ListType != ListBullet && v.ListType != ListOrdered {
			return fmt.Errorf("%w: list type %q", ErrInvalidPatch, v.ListType)
		}
		if v.Align == "" {
			return nil
		}
		return validateAlign(v.Align)
	case DividerBlock:
		if v.Style != nil {
			switch *v.Style {
			case DividerSolid, DividerDashed, DividerDotted:
			default:
				return fmt.Errorf("%w: divider style %q", ErrInvalidPatch, *v.Style)
			}
		}
	case ColumnsBlock:
		if v.Columns != 2 && v.Columns != 3 {
			return fmt.Errorf("%w: columns %d", ErrInvalidPatch, v.Columns)
		}
		for _, col := range v.Content {
			for _, nested := range col {
				if err := Validate(nested); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateAlign(a Align) error {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return nil
	}
	return fmt.Errorf("%w: align %q", ErrInvalidPatch, a)
}

// normalize keeps derived fields consistent after a patch.
func normalize(before, after Block) Block {
	switch v := after.(type) {
	case ColumnsBlock:
		v.Content = v.Cells()
		return v
	case ListBlock:
		if prev, ok := before.(ListBlock); ok && prev.ListType != v.ListType {
			v.Content = retypeLists(v.Content, v.ListType)
		}
		return v
	}
	return after
}

// Cells returns one block sequence per column, whatever the length of
// Content. Sequences past the column count fold into the last cell.
func (b ColumnsBlock) Cells() []BlockList {
	return resizeColumns(b.Content, b.Columns)
}

// resizeColumns makes content hold exactly n sequences. Blocks from dropped
// columns move to the last kept one.
func resizeColumns(content []BlockList, n int) []BlockList {
	if n <= 0 {
		return content
	}
	out := make([]BlockList, n)
	for i := range out {
		out[i] = BlockList{}
	}
	for i, col := range content {
		if i < n {
			out[i] = append(out[i], col...)
			continue
		}
		out[n-1] = append(out[n-1], col...)
	}
	return out
}

func retypeLists(doc Node, lt ListType) Node {
	want := NodeBulletList
	if lt == ListOrdered {
		want = NodeOrderedList
	}
	for i, c := range doc.Content {
		if c.Type == NodeBulletList || c.Type == NodeOrderedList {
			doc.Content[i].Type = want
		}
	}
	return doc
}

func toFields(b Block) (map[string]any, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode block: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode block fields: %w", err)
	}
	return fields, nil
}
