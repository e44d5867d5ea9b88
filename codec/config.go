package codec

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/swfkit/errors"
)

// Format versions bounding the supported range.
const (
	MinVersion = 1
	MaxVersion = 50

	// UnicodeVersion is the first version whose strings are UTF-8.
	UnicodeVersion = 6
)

// Config controls a Codec.
type Config struct {
	// Charset is the IANA name of the text encoding used for strings
	// when Version is below UnicodeVersion.
	Charset string `toml:"charset"`

	// Version is the format version placed in every root Context.
	Version int `toml:"version"`

	// StrictLengths makes any record body that is not consumed exactly a
	// decode fault. When false, unread trailing bytes are skipped.
	StrictLengths bool `toml:"strict_lengths"`

	// Debug enables per-record debug logging.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Charset:       "windows-1252",
		Version:       10,
		StrictLengths: true,
	}
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig parses TOML configuration data over the defaults and
// validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Version < MinVersion || c.Version > MaxVersion {
		return errors.New(errors.PhaseConfig, errors.KindOutOfRange).
			Path("version").
			Value(c.Version).
			Detail("version %d outside [%d, %d]", c.Version, MinVersion, MaxVersion).
			Build()
	}
	if _, err := c.Encoding(); err != nil {
		return err
	}
	return nil
}

// Encoding resolves the string charset for the configured version. It
// returns nil when strings are UTF-8.
func (c Config) Encoding() (encoding.Encoding, error) {
	if c.Version >= UnicodeVersion {
		return nil, nil
	}
	name := strings.TrimSpace(c.Charset)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc == nil {
		err = fmt.Errorf("charset %q is not supported", name)
	}
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("charset").
			Value(name).
			Cause(err).
			Detail("unknown charset").
			Build()
	}
	return enc, nil
}

// TOML renders the configuration as TOML.
func (c Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
