package nl2sql

import "strings"

// Opening fence prefixes, most specific first. Only the first match is
// stripped; the remainder is never re-checked.
var fencePrefixes = []string{"```sqlite", "```sql", "```"}

// Normalize recovers bare query text from a raw service response: it trims
// whitespace and removes a surrounding markdown fence, tagged or not. It
// never fails; at worst it returns an empty string, which validation then
// rejects. Normalizing already-bare text returns it unchanged.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	for _, prefix := range fencePrefixes {
		if strings.HasPrefix(text, prefix) {
			text = text[len(prefix):]
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
