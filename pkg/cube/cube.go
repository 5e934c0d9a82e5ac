// Package cube pulls cube identifiers out of free-form model output.
package cube

import (
	"regexp"
	"strings"
)

// identifierPattern matches one non-empty angle-bracket span without nested
// brackets, e.g. <https://environment.ld.admin.ch/foen/ubd0104/3/>.
var identifierPattern = regexp.MustCompile(`<[^<>]+>`)

// ExtractIdentifiers splits text on whitespace and returns, per token, the
// first bracketed span it contains. Identifiers keep their brackets and are
// returned in order of appearance; duplicates are kept.
//
// Only the first span of a token is used, so "<a><b>" yields "<a>". A token
// like "<<a>>" yields "<a>". Spans cannot cross whitespace.
func ExtractIdentifiers(text string) []string {
	ids := []string{}
	for _, token := range strings.Fields(text) {
		if id := identifierPattern.FindString(token); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// TrimBrackets removes the surrounding angle brackets of an identifier.
func TrimBrackets(id string) string {
	return strings.Trim(strings.TrimSpace(id), "<>")
}
