package packager

import "strings"

// overleafDocsURL is the Overleaf endpoint that imports a project from a URL.
const overleafDocsURL = "https://www.overleaf.com/docs"

// DeepLink returns the Overleaf URL that imports the zip at archiveURL as a
// XeLaTeX project called name.
func DeepLink(archiveURL, name string) string {
	return overleafDocsURL +
		"?snip_uri=" + encodeURIComponent(archiveURL) +
		"&engine=xelatex" +
		"&name=" + encodeURIComponent(name)
}

// encodeURIComponent percent-encodes every byte except the URI unreserved
// marks A-Z a-z 0-9 - _ . ! ~ * ' ( ). url.QueryEscape differs by encoding
// space as '+' and escaping !*'().
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedMark(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreservedMark(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
