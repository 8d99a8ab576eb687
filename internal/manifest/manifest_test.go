package manifest

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Digest([]byte(tt.in)); got != tt.want {
				t.Errorf("Digest(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestManifestSaveLoadKeepsOrder(t *testing.T) {
	fs := afero.NewMemMapFs()

	var m Manifest
	m.Add("ffff", []Record{{Provider: "world", SHA256: "aa", Target: "vendor/capable/world"}})
	m.Add("0000", []Record{
		{Provider: "lib/hello.rb", SHA256: "bb", Target: "hello_you.rb"},
		{Provider: "Newbie", SHA256: "cc", Target: "vendor/capable/lib/newbie.rb"},
	})
	m.Add("empty", nil)

	n, err := m.Save(fs, "Capable.load")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, _ := afero.ReadFile(fs, "Capable.load")
	if n != len(data) {
		t.Errorf("Save() = %d bytes, file has %d", n, len(data))
	}
	if !strings.HasPrefix(string(data), "ffff:") {
		t.Errorf("manifest starts with %q, want the first declared source", string(data))
	}

	loaded, err := Load(fs, "Capable.load")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(loaded.Entries))
	}
	var keys []string
	for _, e := range loaded.Entries {
		keys = append(keys, e.Key)
	}
	if want := []string{"ffff", "0000", "empty"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if !reflect.DeepEqual(loaded.Records(), m.Records()) {
		t.Errorf("Records() = %+v, want %+v", loaded.Records(), m.Records())
	}
}

func TestParse(t *testing.T) {
	src := `
abc123:
- provider: world
  sha256: deadbeef
  target: vendor/capable/world
`
	m, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []Record{{Provider: "world", SHA256: "deadbeef", Target: "vendor/capable/world"}}
	if !reflect.DeepEqual(m.Records(), want) {
		t.Errorf("Records() = %+v, want %+v", m.Records(), want)
	}

	if m, err := Parse(nil); err != nil || len(m.Entries) != 0 {
		t.Errorf("Parse(nil) = %+v, %v, want empty manifest", m, err)
	}
	if _, err := Parse([]byte("- not\n- a mapping\n")); err == nil {
		t.Error("Parse(list) succeeded, want error")
	}
}
