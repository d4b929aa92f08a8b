package torrentparser

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// Magnet holds the fields of a btih magnet link
type Magnet struct {
	InfoHash string // 40 uppercase hex characters
	Name     string
	Trackers []string
}

// parses a torrent magnet link
func ParseMagnetLink(magnetLink string) (Magnet, error) {
	link, err := url.Parse(magnetLink)
	if err != nil {
		return Magnet{}, fmt.Errorf("failed to parse magnet link: %w", err)
	}
	if link.Scheme != "magnet" {
		return Magnet{}, fmt.Errorf("invalid magnet link scheme: %q", link.Scheme)
	}
	query := link.Query()

	var infoHash string
	for _, xt := range query["xt"] {
		if !strings.HasPrefix(xt, "urn:btih:") {
			continue
		}
		infoHash, err = decodeBTIH(strings.TrimPrefix(xt, "urn:btih:"))
		if err != nil {
			return Magnet{}, fmt.Errorf("invalid magnet link %s: %w", magnetLink, err)
		}
		break
	}
	if infoHash == "" {
		return Magnet{}, fmt.Errorf("invalid magnet link: %s: no urn:btih", magnetLink)
	}

	return Magnet{
		InfoHash: infoHash,
		Name:     query.Get("dn"),
		Trackers: query["tr"],
	}, nil
}

// the info hash is either hex (40 chars) or base32 (32 chars)
func decodeBTIH(encoded string) (string, error) {
	var raw []byte
	var err error
	switch len(encoded) {
	case 40:
		raw, err = hex.DecodeString(encoded)
	case 32:
		raw, err = base32.StdEncoding.DecodeString(strings.ToUpper(encoded))
	default:
		return "", fmt.Errorf("info hash has %d characters, want 40 or 32", len(encoded))
	}
	if err != nil {
		return "", fmt.Errorf("decoding info hash: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}
