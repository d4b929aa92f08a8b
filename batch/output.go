package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/givxl33t/magneto/torrentparser"
)

// DefaultOutputName is used when the output location is a directory
const DefaultOutputName = "magnet_links.txt"

// Format selects how results are written
type Format string

const (
	FormatFull      Format = "full"
	FormatLinksOnly Format = "links_only"
	FormatJSON      Format = "json"
)

// ParseFormat validates a format name from the command line
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatFull, FormatLinksOnly, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want full, links_only or json)", s)
	}
}

// OutputPath decides where results are saved.
//
// An explicit output that is a directory, or that has no extension and does
// not exist yet, gets DefaultOutputName appended. Without an explicit output
// the file goes next to the input. The extension is then fixed up for the
// format: .json for json, .txt instead of .json otherwise.
func OutputPath(input, output string, format Format) (string, error) {
	var path string
	switch {
	case output != "":
		path = output
		info, err := os.Stat(output)
		switch {
		case err == nil && info.IsDir():
			path = filepath.Join(output, DefaultOutputName)
		case errors.Is(err, fs.ErrNotExist) && filepath.Ext(output) == "":
			path = filepath.Join(output, DefaultOutputName)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("inspecting output: %w", err)
		}
	default:
		info, err := os.Stat(input)
		if err == nil && info.IsDir() {
			path = filepath.Join(input, DefaultOutputName)
		} else {
			path = filepath.Join(filepath.Dir(input), DefaultOutputName)
		}
	}

	ext := filepath.Ext(path)
	switch {
	case format == FormatJSON && ext != ".json":
		path = strings.TrimSuffix(path, ext) + ".json"
	case format != FormatJSON && ext == ".json":
		path = strings.TrimSuffix(path, ext) + ".txt"
	}
	return path, nil
}

// WriteFile saves results to path, creating its directory when missing
func WriteFile(path string, results []Result, format Format) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, results, format); err != nil {
		return err
	}
	return f.Close()
}

// Write renders results in the given format
func Write(w io.Writer, results []Result, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatLinksOnly:
		return writeLinks(w, results)
	default:
		return writeFull(w, results)
	}
}

// jsonResult is the per-file record of the json format
type jsonResult struct {
	File      string                  `json:"file"`
	Magnet    string                  `json:"magnet,omitempty"`
	InfoHash  string                  `json:"info_hash,omitempty"`
	Metadata  *torrentparser.Metadata `json:"metadata,omitempty"`
	Error     string                  `json:"error,omitempty"`
	ErrorKind string                  `json:"error_kind,omitempty"`
}

func writeJSON(w io.Writer, results []Result) error {
	records := make([]jsonResult, 0, len(results))
	for _, r := range results {
		rec := jsonResult{File: r.File}
		if r.Err != nil {
			rec.Error = r.Err.Error()
			rec.ErrorKind = ErrorKind(r.Err)
		} else {
			rec.Magnet = r.MagnetLink
			rec.InfoHash = r.InfoHash
			rec.Metadata = r.Metadata
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

// only successful links, one per line
func writeLinks(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintln(bw, r.MagnetLink)
		}
	}
	return bw.Flush()
}

func writeFull(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		fmt.Fprintf(bw, "# %s\n", r.File)
		if r.Err != nil {
			fmt.Fprintf(bw, "Error: %s\n\n", r.Err)
			continue
		}
		fmt.Fprintln(bw, r.MagnetLink)
		fmt.Fprintf(bw, "  Info Hash: %s\n", r.InfoHash)
		if r.Metadata.Name != nil {
			fmt.Fprintf(bw, "  Name: %s\n", *r.Metadata.Name)
		}
		if r.Metadata.Info != nil {
			fmt.Fprintf(bw, "  Size: %s (%d files)\n",
				torrentparser.FormatSize(r.Metadata.Info.TotalLength), len(r.Metadata.Info.Files))
		}
		if n := len(r.Metadata.Trackers); n > 0 {
			fmt.Fprintf(bw, "  Trackers: %d found\n", n)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
