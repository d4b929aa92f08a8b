package torrentparser

import (
	"net/url"
	"strings"
)

const magnetPrefix = "magnet:?xt=urn:btih:"

// BuildMagnetLink assembles
//
//	magnet:?xt=urn:btih:<infoHash>[&dn=<name>][&tr=<tracker>]*
//
// An empty name is left out. Name and trackers are query-escaped, so spaces
// become '+'.
func BuildMagnetLink(infoHash, name string, trackers []string) string {
	var b strings.Builder
	b.WriteString(magnetPrefix)
	b.WriteString(infoHash)
	if name != "" {
		b.WriteString("&dn=")
		b.WriteString(url.QueryEscape(name))
	}
	for _, tr := range trackers {
		b.WriteString("&tr=")
		b.WriteString(url.QueryEscape(tr))
	}
	return b.String()
}
