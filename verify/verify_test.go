package verify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	jackpal "github.com/jackpal/bencode-go"

	"github.com/givxl33t/magneto/torrentparser"
)

func fixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := jackpal.Marshal(&buf, map[string]interface{}{
		"announce":      "http://tracker.example.com/announce",
		"announce-list": [][]string{{"http://a.com"}, {"udp://b.com:80", "http://a.com"}},
		"info": map[string]interface{}{
			"name":         "Some Name & more",
			"length":       4096,
			"piece length": 16384,
			"pieces":       strings.Repeat("\xab", 20),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCheck(t *testing.T) {
	data := fixture(t)
	for _, withTrackers := range []bool{false, true} {
		res, err := torrentparser.Convert(data, withTrackers)
		if err != nil {
			t.Fatal(err)
		}
		if err := Check(data, res); err != nil {
			t.Errorf("Check(trackers=%v): %v", withTrackers, err)
		}
	}
}

func TestCheckDetectsMismatch(t *testing.T) {
	data := fixture(t)
	res, err := torrentparser.Convert(data, true)
	if err != nil {
		t.Fatal(err)
	}

	bad := res
	bad.InfoHash = strings.Repeat("0", 40)
	err = Check(data, bad)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Check with wrong hash: %v", err)
	}
	var m *Mismatch
	if !errors.As(err, &m) {
		t.Fatalf("error %v carries no *Mismatch", err)
	}

	bad = res
	other := "Other"
	bad.Metadata.Name = &other
	if err := Check(data, bad); !errors.Is(err, ErrMismatch) {
		t.Errorf("Check with wrong name: %v", err)
	}

	bad = res
	bad.Metadata.Trackers = []string{"http://elsewhere"}
	if err := Check(data, bad); !errors.Is(err, ErrMismatch) {
		t.Errorf("Check with wrong trackers: %v", err)
	}
}

func TestCheckUnverifiable(t *testing.T) {
	// a flat announce-list is fine for us but anacrolix refuses to load it
	var buf bytes.Buffer
	err := jackpal.Marshal(&buf, map[string]interface{}{
		"announce-list": []string{"http://a.com", "http://b.com"},
		"info": map[string]interface{}{
			"name":         "flat",
			"length":       1,
			"piece length": 16384,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	res, err := torrentparser.Convert(data, true)
	if err != nil {
		t.Fatal(err)
	}
	err = Check(data, res)
	if !errors.Is(err, ErrUnverifiable) {
		t.Fatalf("Check() = %v, want ErrUnverifiable", err)
	}
	if errors.Is(err, ErrMismatch) {
		t.Errorf("correct result reported as a mismatch: %v", err)
	}
}
