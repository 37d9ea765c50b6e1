package anthropic

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func collectTexts(c Content) []string {
	texts := []string{}
	for text := range c.Texts() {
		texts = append(texts, text)
	}
	return texts
}

func TestContentDecodeBehavior(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantSingle bool
		wantBlocks int
		wantTexts  []string
	}{
		{
			name:       "bare string",
			payload:    `{"content": "hello"}`,
			wantSingle: true,
			wantTexts:  []string{"hello"},
		},
		{
			name:       "text blocks with unknown kind between",
			payload:    `{"content": [{"type":"text","text":"a"},{"type":"tool_use","id":"x"},{"type":"text","text":"b"}]}`,
			wantBlocks: 3,
			wantTexts:  []string{"a", "b"},
		},
		{
			name:       "empty block array",
			payload:    `{"content": []}`,
			wantBlocks: 0,
			wantTexts:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response MessageResponse
			if err := json.Unmarshal([]byte(tt.payload), &response); err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			if !response.Content.Resolved() {
				t.Fatal("content should be resolved")
			}

			if _, single := response.Content.Text(); single != tt.wantSingle {
				t.Errorf("single-text variant: got %v, want %v", single, tt.wantSingle)
			}
			if blocks, ok := response.Content.Blocks(); ok != !tt.wantSingle {
				t.Errorf("block variant: got %v, want %v", ok, !tt.wantSingle)
			} else if ok && len(blocks) != tt.wantBlocks {
				t.Errorf("block count: got %d, want %d", len(blocks), tt.wantBlocks)
			}

			if got := collectTexts(response.Content); !slices.Equal(got, tt.wantTexts) {
				t.Errorf("texts: got %v, want %v", got, tt.wantTexts)
			}
		})
	}
}

func TestContentDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "content is a number", payload: `{"content": 42}`},
		{name: "content is an object", payload: `{"content": {"text": "hi"}}`},
		{name: "content is null", payload: `{"content": null}`},
		{name: "block without type", payload: `{"content": [{"text": "hi"}]}`},
		{name: "block is not an object", payload: `{"content": [17]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response MessageResponse
			err := json.Unmarshal([]byte(tt.payload), &response)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("got %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestContentMissingIsUnresolved(t *testing.T) {
	var response MessageResponse
	if err := json.Unmarshal([]byte(`{"id": "msg_1"}`), &response); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if response.Content.Resolved() {
		t.Error("absent content field should leave content unresolved")
	}
}

func TestTextsIsRestartable(t *testing.T) {
	content := BlockContent(NewTextBlock("a"), NewTextBlock("b"))

	first := collectTexts(content)
	second := collectTexts(content)
	if !slices.Equal(first, second) {
		t.Errorf("second pass %v differs from first %v", second, first)
	}

	// Early break must not poison later passes.
	for range content.Texts() {
		break
	}
	if got := collectTexts(content); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("pass after early break: got %v", got)
	}
}

func TestTextContentJoinsPayloads(t *testing.T) {
	content := BlockContent(NewTextBlock("foo"), ContentBlock{Kind: "tool_use"}, NewTextBlock("bar"))
	if got := content.TextContent(); got != "foobar" {
		t.Errorf("got %q, want %q", got, "foobar")
	}

	if got := SingleTextContent("solo").TextContent(); got != "solo" {
		t.Errorf("got %q, want %q", got, "solo")
	}
}

func TestContentMarshalMirrorsWireShape(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{name: "single text", content: SingleTextContent("hello"), want: `"hello"`},
		{name: "empty blocks", content: BlockContent(), want: `[]`},
		{name: "text block", content: BlockContent(NewTextBlock("a")), want: `[{"type":"text","text":"a"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.content)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(encoded) != tt.want {
				t.Errorf("got %s, want %s", encoded, tt.want)
			}
		})
	}
}

func TestUnknownBlockRoundTripsRawPayload(t *testing.T) {
	payload := `[{"type":"tool_use","id":"x","input":{"q":1}}]`

	var content Content
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	blocks, ok := content.Blocks()
	if !ok || len(blocks) != 1 {
		t.Fatalf("expected one block, got %v", blocks)
	}
	if !blocks[0].IsUnknown() || blocks[0].Kind != "tool_use" {
		t.Fatalf("expected unknown tool_use block, got %+v", blocks[0])
	}
	if len(blocks[0].Raw()) == 0 {
		t.Fatal("unknown block should keep its raw payload")
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(encoded) != payload {
		t.Errorf("round trip changed payload: got %s, want %s", encoded, payload)
	}
}
