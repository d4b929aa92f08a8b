package torrentparser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/givxl33t/magneto/bencode"
)

func fixtureWithTrackers(t *testing.T) []byte {
	return marshalTorrent(t, map[string]interface{}{
		"announce":      "http://tracker.example.com/announce",
		"announce-list": [][]string{{"http://tracker1.example.com"}, {"http://tracker2.example.com"}},
		"info": map[string]interface{}{
			"name":         "Test Torrent File",
			"length":       12345,
			"piece length": 262144,
			"pieces":       strings.Repeat("p", 20),
		},
	})
}

func TestConvert(t *testing.T) {
	res, err := Convert([]byte(testTorrent), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.InfoHash != testTorrentHash || res.Metadata.InfoHash != testTorrentHash {
		t.Errorf("info hash = %s / %s", res.InfoHash, res.Metadata.InfoHash)
	}
	want := "magnet:?xt=urn:btih:" + testTorrentHash + "&dn=Test"
	if res.MagnetLink != want {
		t.Errorf("MagnetLink = %s, want %s", res.MagnetLink, want)
	}
	if res.Metadata.Name == nil || *res.Metadata.Name != "Test" {
		t.Errorf("Metadata.Name = %v", res.Metadata.Name)
	}
	if res.Metadata.Trackers == nil || len(res.Metadata.Trackers) != 0 {
		t.Errorf("Metadata.Trackers = %#v, want empty", res.Metadata.Trackers)
	}
}

func TestConvertTrackers(t *testing.T) {
	data := fixtureWithTrackers(t)

	with, err := Convert(data, true)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(with.MagnetLink, "&tr=") != 3 {
		t.Errorf("MagnetLink = %s, want 3 trackers", with.MagnetLink)
	}
	if !strings.Contains(with.MagnetLink, "&dn=Test+Torrent+File") {
		t.Errorf("MagnetLink = %s, missing name", with.MagnetLink)
	}

	without, err := Convert(data, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(without.MagnetLink, "&tr=") {
		t.Errorf("MagnetLink = %s, want no trackers", without.MagnetLink)
	}
	// trackers are collected either way
	if len(without.Metadata.Trackers) != 3 {
		t.Errorf("Metadata.Trackers = %q", without.Metadata.Trackers)
	}
	if with.InfoHash != without.InfoHash {
		t.Errorf("info hash depends on tracker flag")
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert([]byte("This is not valid bencode"), false)
	var perr *bencode.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("invalid data: error = %v, want *bencode.ParseError", err)
	}

	_, err = Convert([]byte("d8:announce18:http://tracker.come"), false)
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrMissingInfo) {
		t.Errorf("missing info: error = %v, want ErrMissingInfo", err)
	}
	if err != nil && !strings.Contains(err.Error(), "missing info field") {
		t.Errorf("error %q", err)
	}
}

func TestMetadataJSON(t *testing.T) {
	res, err := Convert([]byte("d4:infod6:lengthi1e12:piece lengthi1eee"), false)
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(res.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, `"name":null`) || !strings.Contains(s, `"trackers":[]`) {
		t.Errorf("metadata json = %s", s)
	}
}
