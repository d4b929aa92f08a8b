package torrentparser

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zeebo/bencode"
)

// InfoSummary describes the payload of a torrent, as read from its info dict
type InfoSummary struct {
	PieceLength int64  `json:"piece_length"`
	PieceCount  int    `json:"piece_count"`
	TotalLength int64  `json:"total_length"`
	Files       []File `json:"files"`
	Private     bool   `json:"private,omitempty"`
}

// File is one payload file; Path is joined onto the torrent name for
// multi-file torrents
type File struct {
	Length int64  `json:"length"`
	Path   string `json:"path"`
}

// Only Length OR Files will be present per BEP0003
// spec: http://bittorrent.org/beps/bep_0003.html#info-dictionary
type bencodeInfo struct {
	Pieces      []byte `bencode:"pieces"`           // binary blob of all SHA1 hashes of each piece
	PieceLength int64  `bencode:"piece length"`     // length in bytes of each piece
	Name        string `bencode:"name"`             // Name of file (or folder if there are multiple files)
	Length      int64  `bencode:"length,omitempty"` // Total length of the file (only for single-file torrents)
	Private     int    `bencode:"private,omitempty"`
	Files       []struct {
		Length int64    `bencode:"length"` // Length of this file in bytes
		Path   []string `bencode:"path"`   // List of subdirectories; last element is file name
	} `bencode:"files,omitempty"` // Present only for multi-file torrents
}

// Summary decodes the raw info dictionary into an InfoSummary
func (t *TorrentFile) Summary() (*InfoSummary, error) {
	raw, err := t.InfoBytes()
	if err != nil {
		return nil, err
	}

	var info bencodeInfo
	err = bencode.DecodeBytes(raw, &info)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling info dict: %w", err)
	}

	const hashLen = 20 // length of a SHA-1 hash
	if len(info.Pieces)%hashLen != 0 {
		return nil, errors.New("invalid length for info pieces")
	}

	s := &InfoSummary{
		PieceLength: info.PieceLength,
		PieceCount:  len(info.Pieces) / hashLen,
		Private:     info.Private == 1,
	}

	// either Length OR Files field must be present (but not both)
	if info.Length == 0 && len(info.Files) == 0 {
		return nil, fmt.Errorf("invalid torrent file info dict: no length OR files")
	}

	if info.Length != 0 {
		s.Files = append(s.Files, File{
			Length: info.Length,
			Path:   info.Name,
		})
		s.TotalLength = info.Length
	} else {
		for _, f := range info.Files {
			subPaths := append([]string{info.Name}, f.Path...)
			s.Files = append(s.Files, File{
				Length: f.Length,
				Path:   filepath.Join(subPaths...),
			})
			s.TotalLength += f.Length
		}
	}

	return s, nil
}

// FormatSize renders a byte count with two decimals, e.g. "2.00 KB"
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f PB", value)
}
