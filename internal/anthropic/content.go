package anthropic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// BlockKindText tags content blocks carrying plain text.
const BlockKindText = "text"

// ContentBlock is one unit of model output, discriminated by Kind. Text is
// populated only for text blocks. Kinds this package does not model are kept
// as-is: Kind holds the wire tag and Raw the undecoded payload, so nothing is
// dropped at parse time.
type ContentBlock struct {
	Kind string
	Text string
	raw  json.RawMessage
}

func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Kind: BlockKindText, Text: text}
}

func (b ContentBlock) IsText() bool    { return b.Kind == BlockKindText }
func (b ContentBlock) IsUnknown() bool { return b.Kind != BlockKindText }

// Raw returns the undecoded payload of an unknown block. It is nil for text
// blocks and for blocks constructed locally.
func (b ContentBlock) Raw() json.RawMessage { return b.raw }

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: content block: %v", ErrMalformedResponse, err)
	}
	if probe.Type == "" {
		return fmt.Errorf("%w: content block has no type", ErrMalformedResponse)
	}
	if probe.Type == BlockKindText {
		*b = ContentBlock{Kind: BlockKindText, Text: probe.Text}
		return nil
	}
	*b = ContentBlock{Kind: probe.Type, raw: append(json.RawMessage(nil), data...)}
	return nil
}

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if b.IsText() {
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{BlockKindText, b.Text})
	}
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{b.Kind})
}

type contentShape int

const (
	contentUnset contentShape = iota
	contentSingleText
	contentBlocks
)

// Content is the body of a model response. The service returns either a bare
// string or an array of typed blocks; the shape is resolved exactly once, at
// decode time, and exposed through Text and Blocks. The zero value is
// unresolved and reports false from Resolved.
type Content struct {
	shape  contentShape
	text   string
	blocks []ContentBlock
}

// SingleTextContent builds the bare-string variant.
func SingleTextContent(text string) Content {
	return Content{shape: contentSingleText, text: text}
}

// BlockContent builds the block-sequence variant. An empty sequence is legal.
func BlockContent(blocks ...ContentBlock) Content {
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	return Content{shape: contentBlocks, blocks: blocks}
}

// Resolved reports whether decoding populated one of the two variants.
func (c Content) Resolved() bool { return c.shape != contentUnset }

// Text returns the bare-string payload; ok is false for the block variant.
func (c Content) Text() (string, bool) {
	return c.text, c.shape == contentSingleText
}

// Blocks returns the block sequence; ok is false for the bare-string variant.
func (c Content) Blocks() ([]ContentBlock, bool) {
	return c.blocks, c.shape == contentBlocks
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("%w: content string: %v", ErrMalformedResponse, err)
		}
		*c = SingleTextContent(text)
		return nil
	case '[':
		blocks := []ContentBlock{}
		if err := json.Unmarshal(trimmed, &blocks); err != nil {
			if errors.Is(err, ErrMalformedResponse) {
				return err
			}
			return fmt.Errorf("%w: content blocks: %v", ErrMalformedResponse, err)
		}
		*c = BlockContent(blocks...)
		return nil
	default:
		return fmt.Errorf("%w: content must be a string or an array", ErrMalformedResponse)
	}
}

func (c Content) MarshalJSON() ([]byte, error) {
	switch c.shape {
	case contentSingleText:
		return json.Marshal(c.text)
	case contentBlocks:
		return json.Marshal(c.blocks)
	default:
		return nil, fmt.Errorf("cannot marshal unresolved content")
	}
}

// Texts yields every text payload in encounter order, for either variant.
// Blocks of other kinds are skipped. The sequence is finite and can be
// ranged over more than once; zero text payloads is not an error.
func (c Content) Texts() iter.Seq[string] {
	return func(yield func(string) bool) {
		switch c.shape {
		case contentSingleText:
			yield(c.text)
		case contentBlocks:
			for _, block := range c.blocks {
				if !block.IsText() {
					continue
				}
				if !yield(block.Text) {
					return
				}
			}
		}
	}
}

// TextContent returns every text payload joined together.
func (c Content) TextContent() string {
	var out strings.Builder
	for text := range c.Texts() {
		out.WriteString(text)
	}
	return out.String()
}

// unknownKind returns the first block kind this package does not model.
func (c Content) unknownKind() (string, bool) {
	if c.shape == contentBlocks {
		for _, block := range c.blocks {
			if block.IsUnknown() {
				return block.Kind, true
			}
		}
	}
	return "", false
}
