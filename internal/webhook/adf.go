package webhook

import "strings"

// adfNode is one node of an Atlassian document.
type adfNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Attrs   map[string]any `json:"attrs"`
	Content []adfNode      `json:"content"`
}

var adfBlocks = map[string]bool{
	"paragraph":   true,
	"heading":     true,
	"blockquote":  true,
	"codeBlock":   true,
	"listItem":    true,
	"mediaSingle": true,
	"mediaGroup":  true,
	"rule":        true,
}

// flattenADF renders an Atlassian document as plain wiki-style text. Media
// nodes become inline attachment references so they correlate like wiki
// markup does.
func flattenADF(doc adfNode) string {
	var b strings.Builder
	writeADF(&b, doc)
	return strings.TrimSpace(b.String())
}

func writeADF(b *strings.Builder, n adfNode) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	case "mention":
		if s, ok := n.Attrs["text"].(string); ok {
			b.WriteString(s)
		}
		return
	case "emoji":
		if s, ok := n.Attrs["text"].(string); ok {
			b.WriteString(s)
		} else if s, ok := n.Attrs["shortName"].(string); ok {
			b.WriteString(s)
		}
		return
	case "media":
		writeMedia(b, n.Attrs)
		return
	}

	for _, child := range n.Content {
		writeADF(b, child)
	}
	if adfBlocks[n.Type] {
		b.WriteString("\n")
	}
}

func writeMedia(b *strings.Builder, attrs map[string]any) {
	name, _ := attrs["alt"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	b.WriteString("!")
	b.WriteString(name)
	if id, ok := attrs["id"].(string); ok && isDigits(id) {
		b.WriteString("|data-attachment-id=")
		b.WriteString(id)
	} else {
		b.WriteString("|thumbnail")
	}
	b.WriteString("!")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
