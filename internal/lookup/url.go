package lookup

import "strings"

// Marker is the placeholder in a search URL template that receives the token.
const Marker = "{search_term}"

// BuildURL substitutes token into the first Marker of template. The token is
// inserted verbatim, without URL encoding. A template without a marker is
// returned unchanged.
func BuildURL(template, token string) string {
	return strings.Replace(template, Marker, token, 1)
}
