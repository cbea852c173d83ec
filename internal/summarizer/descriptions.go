package summarizer

import (
	"encoding/json"
	"strings"
)

const markdownFence = "```"

// ParseDescriptions decodes a model response holding a JSON object of
// name-to-description pairs. Markdown code fences and surrounding prose are
// tolerated, non-string values are dropped, and anything unparseable yields an
// empty mapping.
func ParseDescriptions(response string) map[string]string {
	descriptions := map[string]string{}
	payload := stripMarkdownFence(strings.TrimSpace(response))
	openingIndex := strings.Index(payload, "{")
	closingIndex := strings.LastIndex(payload, "}")
	if openingIndex < 0 || closingIndex < openingIndex {
		return descriptions
	}
	var decoded map[string]any
	if decodeError := json.Unmarshal([]byte(payload[openingIndex:closingIndex+1]), &decoded); decodeError != nil {
		return descriptions
	}
	for name, value := range decoded {
		if text, isText := value.(string); isText {
			descriptions[name] = text
		}
	}
	return descriptions
}

func stripMarkdownFence(text string) string {
	if !strings.HasPrefix(text, markdownFence) {
		return text
	}
	if newlineIndex := strings.Index(text, "\n"); newlineIndex >= 0 {
		text = text[newlineIndex+1:]
	} else {
		text = strings.TrimPrefix(text, markdownFence)
	}
	return strings.TrimSuffix(strings.TrimSpace(text), markdownFence)
}
