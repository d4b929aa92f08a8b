// Package verify re-derives a conversion with independent bencode
// implementations and reports any disagreement.
package verify

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/zeebo/bencode"

	"github.com/givxl33t/magneto/torrentparser"
)

var (
	// ErrMismatch is wrapped by every disagreement Check finds
	ErrMismatch = errors.New("verification mismatch")
	// ErrUnverifiable means a reference decoder could not load the file,
	// so there was nothing to compare against
	ErrUnverifiable = errors.New("reference decoder rejected file")
)

// Mismatch is one disagreement between a Result and an independent source
type Mismatch struct {
	Check string
	Got   string
	Want  string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s: got %q, want %q", m.Check, m.Got, m.Want)
}

func (m *Mismatch) Unwrap() error {
	return ErrMismatch
}

// Check confirms res is what other implementations derive from data:
// the info span as zeebo/bencode slices it, the info hash anacrolix
// computes, and the magnet link as both anacrolix and ParseMagnetLink read it.
//
// Disagreements wrap ErrMismatch. A reference decoder that cannot load data
// contributes an error wrapping ErrUnverifiable instead.
func Check(data []byte, res torrentparser.Result) error {
	var errs []error

	rawHash, err := zeeboInfoHash(data)
	if err != nil {
		errs = append(errs, err)
	} else if rawHash != res.InfoHash {
		errs = append(errs, &Mismatch{Check: "zeebo info span", Got: res.InfoHash, Want: rawHash})
	}

	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: anacrolix load: %v", ErrUnverifiable, err))
	} else if want := strings.ToUpper(mi.HashInfoBytes().HexString()); want != res.InfoHash {
		errs = append(errs, &Mismatch{Check: "anacrolix info hash", Got: res.InfoHash, Want: want})
	}

	errs = append(errs, checkMagnet(res)...)
	return errors.Join(errs...)
}

// torrent with the info dict left raw
type bencodeTorrent struct {
	Info bencode.RawMessage `bencode:"info"`
}

func zeeboInfoHash(data []byte) (string, error) {
	var btor bencodeTorrent
	err := bencode.DecodeBytes(data, &btor)
	if err != nil {
		return "", fmt.Errorf("%w: zeebo decode: %v", ErrUnverifiable, err)
	}
	if len(btor.Info) == 0 {
		return "", fmt.Errorf("%w: zeebo decode: no info dict", ErrUnverifiable)
	}
	sum := sha1.Sum(btor.Info)
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

func checkMagnet(res torrentparser.Result) []error {
	var errs []error

	// our own link failing to parse is a defect in the link
	am, err := metainfo.ParseMagnetUri(res.MagnetLink)
	if err != nil {
		return append(errs, &Mismatch{Check: "anacrolix magnet parse", Got: err.Error(), Want: "a parsable link"})
	}
	if got := strings.ToUpper(am.InfoHash.HexString()); got != res.InfoHash {
		errs = append(errs, &Mismatch{Check: "magnet xt", Got: got, Want: res.InfoHash})
	}

	m, err := torrentparser.ParseMagnetLink(res.MagnetLink)
	if err != nil {
		return append(errs, &Mismatch{Check: "magnet parse", Got: err.Error(), Want: "a parsable link"})
	}
	var name string
	if res.Metadata.Name != nil {
		name = *res.Metadata.Name
	}
	if m.Name != name || am.DisplayName != name {
		errs = append(errs, &Mismatch{Check: "magnet dn", Got: m.Name, Want: name})
	}
	for i, tr := range m.Trackers {
		if i >= len(res.Metadata.Trackers) || res.Metadata.Trackers[i] != tr {
			errs = append(errs, &Mismatch{Check: "magnet tr", Got: tr, Want: strings.Join(res.Metadata.Trackers, " ")})
			break
		}
	}
	return errs
}
