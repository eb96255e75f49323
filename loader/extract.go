package loader

import (
	"encoding/json"
	"sort"
	"strings"
)

// textKeys are the JSON fields whose string values contribute to the
// embedded text, in the order they are emitted at each level.
var textKeys = []string{"name", "title", "description", "text", "content"}

// ExtractText flattens a JSON document into the text that gets embedded:
// a depth-first concatenation of every name, title, description, text and
// content string, one per line. Traversal order is deterministic, so the
// same document always yields the same text. Returns the empty string for
// documents carrying no text-bearing fields.
func ExtractText(data []byte) string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}

	var parts []string
	collectText(doc, &parts)
	return strings.Join(parts, "\n")
}

func collectText(node any, parts *[]string) {
	switch v := node.(type) {
	case map[string]any:
		// Text fields first, in fixed order, then recurse into the
		// remaining keys sorted.
		for _, key := range textKeys {
			if s, ok := v[key].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					*parts = append(*parts, s)
				}
			}
		}

		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch v[key].(type) {
			case map[string]any, []any:
				collectText(v[key], parts)
			}
		}
	case []any:
		for _, item := range v {
			collectText(item, parts)
		}
	}
}
