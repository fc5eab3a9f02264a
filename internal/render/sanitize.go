package render

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var stripPolicy = bluemonday.StrictPolicy()

// plainText strips any markup from user-entered text such as the preview
// line. The serializers escape the result again.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// safeURL drops URLs with schemes that can execute script. Relative URLs
// and fragments pass through.
func safeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return "#"
	}
	if u.Scheme == "" || allowedSchemes[strings.ToLower(u.Scheme)] {
		return s
	}
	return "#"
}
