package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const DefaultDocumentName = "Untitled Email"

type Settings struct {
	BackgroundColor string `json:"backgroundColor"`
	ContentWidth    int    `json:"contentWidth"`
	PreviewText     string `json:"previewText,omitempty"`
}

// Document is the email being composed. Block order is render order.
// DesignSystemID is a weak reference resolved by id at render time.
type Document struct {
	Name           string    `json:"name"`
	Blocks         BlockList `json:"blocks"`
	DesignSystemID string    `json:"designSystemId,omitempty"`
	Settings       Settings  `json:"settings"`
}

// NewDocument returns the blank document every session starts from.
func NewDocument() Document {
	return Document{
		Name:   DefaultDocumentName,
		Blocks: BlockList{},
		Settings: Settings{
			BackgroundColor: "#f3f4f6",
			ContentWidth:    600,
		},
	}
}

func (d Document) Clone() Document {
	d.Blocks = d.Blocks.Clone()
	return d
}

// FindBlock returns the top-level block with the given id and its index.
func (d Document) FindBlock(id string) (Block, int) {
	i := d.Blocks.Index(id)
	if i < 0 {
		return nil, -1
	}
	return d.Blocks[i], i
}

// FindNested searches top-level blocks and column contents.
func (d Document) FindNested(id string) (Block, bool) {
	return findIn(d.Blocks, id)
}

func findIn(blocks BlockList, id string) (Block, bool) {
	for _, b := range blocks {
		if b.BlockID() == id {
			return b, true
		}
		if cols, ok := b.(ColumnsBlock); ok {
			for _, col := range cols.Content {
				if found, ok := findIn(col, id); ok {
					return found, true
				}
			}
		}
	}
	return nil, false
}

// Equal compares documents by their serialized form.
func (d Document) Equal(other Document) bool {
	a, err := json.Marshal(d)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// ParseDocument decodes a document and fills missing settings with the
// blank-document defaults. Blocks with out-of-range fields are rejected.
func ParseDocument(data []byte) (Document, error) {
	doc := NewDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if doc.Blocks == nil {
		doc.Blocks = BlockList{}
	}
	for _, b := range doc.Blocks {
		if err := Validate(b); err != nil {
			return Document{}, fmt.Errorf("block %s: %w", b.BlockID(), err)
		}
	}
	return doc, nil
}
