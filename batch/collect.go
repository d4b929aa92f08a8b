package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const torrentExt = ".torrent"

// Collect lists the .torrent files at path.
//
// A file is returned as is when its extension matches. A directory is
// searched at the top level, or entirely when recursive is set. The
// extension match ignores case unless caseSensitive is set, which accepts
// only the all-lower and all-upper spellings. A path that
// does not exist yields no files and no error.
func Collect(path string, recursive, caseSensitive bool) ([]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting input: %w", err)
	}

	isTorrent := func(name string) bool {
		ext := filepath.Ext(name)
		if caseSensitive {
			return ext == torrentExt || ext == strings.ToUpper(torrentExt)
		}
		return strings.EqualFold(ext, torrentExt)
	}

	if !info.IsDir() {
		if isTorrent(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isTorrent(d.Name()) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && isTorrent(e.Name()) {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return dedupe(files), nil
}

// helper to drop repeated paths from a sorted list
func dedupe(files []string) []string {
	deduped := []string{}
	set := map[string]bool{}
	for _, f := range files {
		if !set[f] {
			deduped = append(deduped, f)
			set[f] = true
		}
	}
	return deduped
}
