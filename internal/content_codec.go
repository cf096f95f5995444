package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errNotStructured = errors.New("content is not a block array")

// wireBlock is the storage encoding of a ContentBlock
type wireBlock struct {
	Type     BlockKind     `json:"type"`
	Text     *string       `json:"text,omitempty"`
	ImageURL *wireImageURL `json:"image_url,omitempty"`
}

type wireImageURL struct {
	URL string `json:"url"`
}

// DecodeContent converts a stored message body into MessageContent.
//
// Assistant bodies are always plain text. Any other body that parses as a
// well-formed block array becomes Blocks; everything else (legacy rows,
// malformed JSON, JSON that is not a block array) comes back verbatim as
// Text. DecodeContent never fails.
func DecodeContent(role Role, raw string) MessageContent {
	if role == RoleAssistant {
		return Text(raw)
	}

	blocks, err := parseBlocks(raw)
	if err != nil {
		if !errors.Is(err, errNotStructured) {
			LogDebug("Treating message body as plain text: %v", err)
		}
		return Text(raw)
	}
	return blocks
}

// EncodeContent converts MessageContent into its storage string form.
// Text passes through unchanged; Blocks are serialized as a JSON array and
// must hold valid UTF-8.
func EncodeContent(content MessageContent) (string, error) {
	switch c := content.(type) {
	case Text:
		return string(c), nil
	case Blocks:
		wire := make([]wireBlock, 0, len(c))
		for i, b := range c {
			if b == nil {
				return "", fmt.Errorf("content block %d is nil", i)
			}
			if !validUTF8Block(b) {
				return "", fmt.Errorf("content block %d is not valid UTF-8", i)
			}
			wire = append(wire, toWireBlock(b))
		}
		data, err := json.Marshal(wire)
		if err != nil {
			return "", fmt.Errorf("failed to encode content blocks: %w", err)
		}
		return string(data), nil
	case nil:
		return "", errors.New("message content is nil")
	default:
		return "", fmt.Errorf("unsupported message content %T", content)
	}
}

func validUTF8Block(b ContentBlock) bool {
	switch v := b.(type) {
	case TextBlock:
		return utf8.ValidString(v.Text)
	case ImageBlock:
		return utf8.ValidString(v.URL)
	}
	return true
}

func parseBlocks(raw string) (Blocks, error) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return nil, errNotStructured
	}

	var wire []wireBlock
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ParseError{Source: "content", Key: "blocks", Err: err}
	}

	blocks := make(Blocks, 0, len(wire))
	for i, w := range wire {
		b, err := fromWireBlock(w)
		if err != nil {
			return nil, &ParseError{Source: "content", Key: fmt.Sprintf("block[%d]", i), Err: err}
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func fromWireBlock(w wireBlock) (ContentBlock, error) {
	switch w.Type {
	case BlockKindText:
		if w.Text == nil || w.ImageURL != nil {
			return nil, errors.New("text block must carry only text")
		}
		return TextBlock{Text: *w.Text}, nil
	case BlockKindImageURL:
		if w.ImageURL == nil || w.Text != nil {
			return nil, errors.New("image_url block must carry only image_url")
		}
		return ImageBlock{URL: w.ImageURL.URL}, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", w.Type)
	}
}

func toWireBlock(b ContentBlock) wireBlock {
	switch v := b.(type) {
	case TextBlock:
		text := v.Text
		return wireBlock{Type: BlockKindText, Text: &text}
	case ImageBlock:
		return wireBlock{Type: BlockKindImageURL, ImageURL: &wireImageURL{URL: v.URL}}
	default:
		return wireBlock{Type: b.Kind()}
	}
}
