package torrentparser

import (
	"fmt"
	"os"
)

// ParseTorrentFile reads and parses a .torrent file from disk.
// Read failures keep the underlying *fs.PathError in the chain so callers
// can tell them apart from parse and validation errors.
func ParseTorrentFile(path string) (*TorrentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}
	return Parse(data)
}
