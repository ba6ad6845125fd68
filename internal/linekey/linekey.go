// Package linekey defines the canonical dialogue-line identifier shared by
// every asset table in a localization pack. All cross-stage joins key on it.
package linekey

import (
	"fmt"
	"slices"
	"strings"
)

// Channel identifies the playback surface a voice line targets.
type Channel string

const (
	ChannelDefault  Channel = "vo"
	ChannelHelmet   Channel = "vo_helmet"
	ChannelHolocall Channel = "vo_holocall"
	ChannelRewinded Channel = "vo_rewinded"
)

var validChannels = map[Channel]struct{}{
	ChannelDefault:  {},
	ChannelHelmet:   {},
	ChannelHolocall: {},
	ChannelRewinded: {},
}

// Key uniquely identifies one dialogue line across every language pack.
// The same Key appears in every pack that recorded the line.
type Key struct {
	Speaker string
	Scene   string
	Line    string
	Channel Channel
}

// String renders the canonical form "speaker/scene/line.channel".
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s.%s", k.Speaker, k.Scene, k.Line, k.Channel)
}

// IsZero reports whether the key is empty.
func (k Key) IsZero() bool {
	return k.Speaker == "" && k.Scene == "" && k.Line == ""
}

// Parse converts the canonical string form back into a Key.
func Parse(value string) (Key, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Key{}, fmt.Errorf("line key: empty value")
	}

	channel := ChannelDefault
	if idx := strings.LastIndexByte(trimmed, '.'); idx >= 0 {
		channel = Channel(trimmed[idx+1:])
		trimmed = trimmed[:idx]
	}
	if _, ok := validChannels[channel]; !ok {
		return Key{}, fmt.Errorf("line key: unknown channel %q in %q", channel, value)
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("line key: expected speaker/scene/line, got %q", value)
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return Key{}, fmt.Errorf("line key: empty segment in %q", value)
		}
	}

	return Key{
		Speaker: parts[0],
		Scene:   parts[1],
		Line:    parts[2],
		Channel: channel,
	}, nil
}

// MustParse parses a key or panics. Intended for fixtures and tests.
func MustParse(value string) Key {
	key, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return key
}

// MarshalText implements encoding.TextMarshaler so keys can index JSON maps.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SortKeys orders keys deterministically by their canonical string form.
func SortKeys(keys []Key) {
	slices.SortFunc(keys, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
}
