package lookup

import "strings"

// RedirectMarker introduces a client-side script navigation, as emitted by
// search engines that bounce through an interstitial page.
const RedirectMarker = "window.location.replace("

// RedirectTarget looks for a script redirect in body. It reports found=false
// when the marker is absent. When the marker is present the quoted target is
// cut at the first '&', trimmed to start at "http" and percent-decoded.
// Malformed escapes are left in place.
func RedirectTarget(body string) (target string, found bool, err error) {
	i := strings.Index(body, RedirectMarker)
	if i < 0 {
		return "", false, nil
	}
	rest := body[i+len(RedirectMarker):]
	if rest == "" || (rest[0] != '\'' && rest[0] != '"') {
		return "", true, &RedirectParseError{Reason: "missing opening quote"}
	}
	quote := rest[0]
	rest = rest[1:]

	end := strings.Index(rest, string(quote)+")")
	if end < 0 {
		return "", true, &RedirectParseError{Reason: "missing closing quote"}
	}
	raw := rest[:end]

	if amp := strings.IndexByte(raw, '&'); amp >= 0 {
		raw = raw[:amp]
	}
	h := strings.Index(raw, "http")
	if h < 0 {
		return "", true, &RedirectParseError{Reason: "no http target in " + raw}
	}

	return unescape(raw[h:]), true, nil
}

// unescape decodes %xx sequences. A '%' not followed by two hex digits is
// kept as is and '+' stays literal.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
