package torrentparser

import (
	"strings"
	"testing"

	"github.com/anacrolix/torrent/metainfo"
)

func TestBuildMagnetLink(t *testing.T) {
	hash := strings.Repeat("A", 40)

	tests := []struct {
		name     string
		title    string
		trackers []string
		want     string
	}{
		{"hash only", "", nil, "magnet:?xt=urn:btih:" + hash},
		{"with name", "Test File", nil, "magnet:?xt=urn:btih:" + hash + "&dn=Test+File"},
		{
			"with trackers", "", []string{"http://tracker1.example.com", "http://tracker2.example.com"},
			"magnet:?xt=urn:btih:" + hash + "&tr=http%3A%2F%2Ftracker1.example.com&tr=http%3A%2F%2Ftracker2.example.com",
		},
		{
			"everything", "Test File", []string{"http://t.com"},
			"magnet:?xt=urn:btih:" + hash + "&dn=Test+File&tr=http%3A%2F%2Ft.com",
		},
		{"reserved characters", "a&b=c#d?e%", nil, "magnet:?xt=urn:btih:" + hash + "&dn=a%26b%3Dc%23d%3Fe%25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildMagnetLink(hash, tt.title, tt.trackers)
			if got != tt.want {
				t.Errorf("BuildMagnetLink() = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestMagnetLinkRoundTrip(t *testing.T) {
	hash := "219410DE07B0D4E2455D0571E0514C23C78B6BD5"
	name := "Ünïcode name & [brackets] 100%"
	trackers := []string{"udp://tracker.example.com:1337/announce", "http://b.com/announce?passkey=a+b"}

	link := BuildMagnetLink(hash, name, trackers)

	m, err := ParseMagnetLink(link)
	if err != nil {
		t.Fatalf("ParseMagnetLink: %v", err)
	}
	if m.InfoHash != hash {
		t.Errorf("InfoHash = %s, want %s", m.InfoHash, hash)
	}
	if m.Name != name {
		t.Errorf("Name = %q, want %q", m.Name, name)
	}
	if strings.Join(m.Trackers, " ") != strings.Join(trackers, " ") {
		t.Errorf("Trackers = %q, want %q", m.Trackers, trackers)
	}

	// a client library must read the same link the same way
	am, err := metainfo.ParseMagnetUri(link)
	if err != nil {
		t.Fatalf("metainfo.ParseMagnetUri: %v", err)
	}
	if strings.ToUpper(am.InfoHash.HexString()) != hash {
		t.Errorf("anacrolix InfoHash = %s", am.InfoHash.HexString())
	}
	if am.DisplayName != name {
		t.Errorf("anacrolix DisplayName = %q", am.DisplayName)
	}
}

func TestParseMagnetLink(t *testing.T) {
	m, err := ParseMagnetLink("magnet:?xt=urn:btih:egkbbxqhwdkoerk5avy6aukmepdyw26v&dn=Test")
	if err != nil {
		t.Fatal(err)
	}
	if m.InfoHash != "219410DE07B0D4E2455D0571E0514C23C78B6BD5" {
		t.Errorf("base32 InfoHash = %s", m.InfoHash)
	}
	if m.Name != "Test" || len(m.Trackers) != 0 {
		t.Errorf("got %+v", m)
	}

	for _, bad := range []string{
		"http://example.com/?xt=urn:btih:" + strings.Repeat("A", 40),
		"magnet:?dn=no-hash",
		"magnet:?xt=urn:btih:ABC",
		"magnet:?xt=urn:btih:" + strings.Repeat("Z", 40),
	} {
		if _, err := ParseMagnetLink(bad); err == nil {
			t.Errorf("ParseMagnetLink(%q) succeeded", bad)
		}
	}
}
