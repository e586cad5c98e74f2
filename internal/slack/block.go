package slack

// Block Kit structures, limited to the block types the notifier emits:
// header, section (with text or a field grid), actions and context.

// Block is one Block Kit layout block.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []Element    `json:"elements,omitempty"`
}

// TextObject is a plain_text or mrkdwn text composition object.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Element is a block element. The notifier uses button elements in
// actions blocks and mrkdwn elements in context blocks.
type Element struct {
	Type  string      `json:"type"`
	Text  *TextObject `json:"text,omitempty"`
	URL   string      `json:"url,omitempty"`
	Style string      `json:"style,omitempty"`
}

// PlainText builds a plain_text object.
func PlainText(text string) *TextObject {
	return &TextObject{Type: "plain_text", Text: text}
}

// Markdown builds an mrkdwn object.
func Markdown(text string) TextObject {
	return TextObject{Type: "mrkdwn", Text: text}
}

// HeaderBlock builds a header block.
func HeaderBlock(text string) Block {
	return Block{Type: "header", Text: PlainText(text)}
}

// SectionFields builds a section block with a field grid.
func SectionFields(fields ...TextObject) Block {
	return Block{Type: "section", Fields: fields}
}

// SectionText builds a section block with a single mrkdwn body.
func SectionText(text string) Block {
	md := Markdown(text)
	return Block{Type: "section", Text: &md}
}

// ButtonElement builds a URL button.
func ButtonElement(label, url, style string) Element {
	return Element{Type: "button", Text: PlainText(label), URL: url, Style: style}
}

// ActionsBlock builds an actions block.
func ActionsBlock(elements ...Element) Block {
	return Block{Type: "actions", Elements: elements}
}

// ContextBlock builds a context block of mrkdwn elements.
func ContextBlock(texts ...string) Block {
	elements := make([]Element, 0, len(texts))
	for _, t := range texts {
		md := Markdown(t)
		elements = append(elements, Element{Type: "mrkdwn", Text: &md})
	}
	return Block{Type: "context", Elements: elements}
}
