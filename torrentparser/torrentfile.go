package torrentparser

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/givxl33t/magneto/bencode"
)

// TorrentFile is a decoded .torrent document.
//
// It keeps the source buffer next to the decoded tree because the info_hash
// is the SHA-1 of the info value exactly as it was encoded, which a
// re-encoding of the tree does not reproduce for every producer.
//
// A TorrentFile is never modified after Parse returns.
type TorrentFile struct {
	raw  []byte
	root *bencode.Dict

	info    bencode.Value
	hasInfo bool
}

// Parse decodes a torrent document. data must not be modified afterwards.
//
// Malformed bencode fails with a wrapped *bencode.ParseError and a root that
// is not a dictionary with *ValidationError. A missing info key is not an
// error here; it is reported by InfoHash.
func Parse(data []byte) (*TorrentFile, error) {
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse torrent file: %w", err)
	}
	root, err := v.Dict()
	if err != nil {
		return nil, &ValidationError{Err: ErrRootNotDict}
	}

	tf := &TorrentFile{raw: data, root: root}
	// the decoder recorded where the info value started and ended
	tf.info, tf.hasInfo = root.Get("info")
	return tf, nil
}

// Bytes returns the buffer the document was decoded from
func (t *TorrentFile) Bytes() []byte {
	return t.raw
}

// InfoSpan returns the location of the raw info value in the source buffer
func (t *TorrentFile) InfoSpan() (bencode.Span, bool) {
	return t.info.Span(), t.hasInfo
}

// InfoBytes returns the info dictionary exactly as it appears in the file
func (t *TorrentFile) InfoBytes() ([]byte, error) {
	if !t.hasInfo {
		return nil, &ValidationError{Err: ErrMissingInfo}
	}
	if t.info.Kind() != bencode.KindDict {
		return nil, &ValidationError{Err: ErrInfoNotDict}
	}
	return t.info.Raw(t.raw)
}

// InfoHashBytes is the 20-byte SHA-1 of the raw info dictionary
func (t *TorrentFile) InfoHashBytes() ([20]byte, error) {
	raw, err := t.InfoBytes()
	if err != nil {
		return [20]byte{}, err
	}
	return sha1.Sum(raw), nil
}

// InfoHash returns the info_hash as 40 uppercase hex characters.
// It fails with *ValidationError when info is missing, and also when info
// holds something other than a dictionary, which no client accepts.
func (t *TorrentFile) InfoHash() (string, error) {
	sum, err := t.InfoHashBytes()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

// Name returns info.name, falling back to a root-level name.
// Invalid UTF-8 is replaced rather than rejected.
func (t *TorrentFile) Name() (string, bool) {
	if info, err := t.info.Dict(); err == nil {
		if name, ok := stringField(info, "name"); ok {
			return name, true
		}
	}
	return stringField(t.root, "name")
}

// Trackers merges announce and the flattened announce-list, keeping the
// first appearance of each URL
func (t *TorrentFile) Trackers() []string {
	trackers := []string{}
	seen := map[string]bool{}
	add := func(v bencode.Value) {
		raw, err := v.Bytes()
		if err != nil || len(raw) == 0 {
			return
		}
		url := toText(raw)
		if !seen[url] {
			seen[url] = true
			trackers = append(trackers, url)
		}
	}

	if announce, ok := t.root.Get("announce"); ok {
		add(announce)
	}

	announceList, ok := t.root.Get("announce-list")
	if !ok {
		return trackers
	}
	tiers, err := announceList.List()
	if err != nil {
		return trackers
	}
	for _, tier := range tiers {
		urls, err := tier.List()
		if err != nil {
			// some producers write a flat list of strings
			add(tier)
			continue
		}
		for _, u := range urls {
			add(u)
		}
	}
	return trackers
}

func stringField(d *bencode.Dict, key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	raw, err := v.Bytes()
	if err != nil {
		return "", false
	}
	return toText(raw), true
}

// toText decodes producer-supplied bytes as UTF-8, replacing bad sequences
func toText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
