package codec

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	swferrors "github.com/wippyai/swfkit/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.StrictLengths {
		t.Error("default config should be strict")
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
version = 5
charset = "Shift_JIS"
strict_lengths = false
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != 5 || cfg.StrictLengths {
		t.Errorf("got %+v", cfg)
	}
	if cfg.Debug {
		t.Error("debug should keep its default")
	}
	enc, err := cfg.Encoding()
	if err != nil {
		t.Fatal(err)
	}
	if enc != japanese.ShiftJIS {
		t.Errorf("Encoding: got %v, want Shift JIS", enc)
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind swferrors.Kind
	}{
		{"unknown key", `colour = "red"`, swferrors.KindInvalidInput},
		{"bad syntax", `version = `, swferrors.KindInvalidInput},
		{"version too low", `version = 0`, swferrors.KindOutOfRange},
		{"unknown charset", "version = 4\ncharset = \"klingon\"", swferrors.KindInvalidInput},
	}

	for _, tt := range tests {
		_, err := ParseConfig([]byte(tt.data))
		if !isKind(err, swferrors.PhaseConfig, tt.kind) {
			t.Errorf("%s: got %v, want %s", tt.name, err, tt.kind)
		}
	}
}

func TestConfigEncoding(t *testing.T) {
	cfg := DefaultConfig()
	enc, err := cfg.Encoding()
	if err != nil || enc != nil {
		t.Errorf("version %d should use UTF-8, got %v %v", cfg.Version, enc, err)
	}

	cfg.Version = 5
	enc, err = cfg.Encoding()
	if err != nil {
		t.Fatal(err)
	}
	if enc != charmap.Windows1252 {
		t.Errorf("got %v, want windows-1252", enc)
	}

	cfg.Charset = "UTF-8"
	if enc, _ := cfg.Encoding(); enc != nil {
		t.Errorf("UTF-8 charset should pass through, got %v", enc)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swfkit.toml")
	if err := os.WriteFile(path, []byte("version = 9\ndebug = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != 9 || !cfg.Debug || !cfg.StrictLengths {
		t.Errorf("got %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 7
	data, err := cfg.TOML()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}
