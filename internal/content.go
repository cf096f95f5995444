package internal

import (
	"encoding/json"
	"strings"
)

// MessageContent is either Text or Blocks
type MessageContent interface {
	isMessageContent()
}

// Text is plain message content. Legacy rows and all assistant replies
// decode to Text.
type Text string

func (Text) isMessageContent() {}

// Blocks is structured multimodal content
type Blocks []ContentBlock

func (Blocks) isMessageContent() {}

// BlockKind is the wire "type" of a content block
type BlockKind string

const (
	BlockKindText     BlockKind = "text"
	BlockKindImageURL BlockKind = "image_url"
)

// ContentBlock is either a TextBlock or an ImageBlock
type ContentBlock interface {
	Kind() BlockKind
	isContentBlock()
}

// TextBlock carries a piece of text
type TextBlock struct {
	Text string
}

// Kind implements ContentBlock
func (TextBlock) Kind() BlockKind { return BlockKindText }

func (TextBlock) isContentBlock() {}

// ImageBlock references an image by URL (remote or data: URL)
type ImageBlock struct {
	URL string
}

// Kind implements ContentBlock
func (ImageBlock) Kind() BlockKind { return BlockKindImageURL }

func (ImageBlock) isContentBlock() {}

// PlainText flattens content into text, joining text blocks with newlines
// and skipping images
func PlainText(content MessageContent) string {
	switch c := content.(type) {
	case Text:
		return string(c)
	case Blocks:
		var parts []string
		for _, b := range c {
			if tb, ok := b.(TextBlock); ok {
				parts = append(parts, tb.Text)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

// MarshalJSON writes the block in its storage form
func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWireBlock(b))
}

// MarshalJSON writes the block in its storage form
func (b ImageBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWireBlock(b))
}

// MarshalYAML writes the block with the same field names as its JSON form
func (b TextBlock) MarshalYAML() (interface{}, error) {
	return map[string]string{"type": string(BlockKindText), "text": b.Text}, nil
}

// MarshalYAML writes the block with the same field names as its JSON form
func (b ImageBlock) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"type":      string(BlockKindImageURL),
		"image_url": map[string]string{"url": b.URL},
	}, nil
}
