package torrentparser

import (
	"log/slog"
)

// Metadata is what a conversion learned about a torrent besides its link
type Metadata struct {
	Name     *string      `json:"name"`
	Trackers []string     `json:"trackers"`
	InfoHash string       `json:"info_hash"`
	Info     *InfoSummary `json:"info,omitempty"`
}

// Result of converting one torrent
type Result struct {
	MagnetLink string
	InfoHash   string
	Metadata   Metadata
}

// Convert parses a .torrent buffer and builds its magnet link.
//
// Trackers are always collected into Metadata; includeTrackers only decides
// whether they are embedded in the link. Errors are a wrapped
// *bencode.ParseError or a *ValidationError.
func Convert(data []byte, includeTrackers bool) (Result, error) {
	tf, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	return tf.Convert(includeTrackers)
}

func (t *TorrentFile) Convert(includeTrackers bool) (Result, error) {
	infoHash, err := t.InfoHash()
	if err != nil {
		return Result{}, err
	}

	md := Metadata{
		Trackers: t.Trackers(),
		InfoHash: infoHash,
	}
	name, hasName := t.Name()
	if hasName {
		md.Name = &name
	}

	// the summary is informational; a torrent we can hash is still converted
	md.Info, err = t.Summary()
	if err != nil {
		slog.Debug("skipping info summary", "info_hash", infoHash, "err", err)
	}

	var linkTrackers []string
	if includeTrackers {
		linkTrackers = md.Trackers
	}

	return Result{
		MagnetLink: BuildMagnetLink(infoHash, name, linkTrackers),
		InfoHash:   infoHash,
		Metadata:   md,
	}, nil
}
