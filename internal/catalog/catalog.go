package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"polyvox/internal/language"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
)

// Pack is one language's complete asset set, read-only after load.
type Pack struct {
	Language    string
	Dir         string
	Clips       map[linekey.Key]map[string]VoiceClip // variant -> clip
	Identity    map[linekey.Key]IdentityEntry
	Timing      map[linekey.Key]TimingRecord
	SceneBounds map[string]float64
	Subtitles   map[linekey.Key]SubtitleEntry
	Lipsync     map[linekey.Key]string // shipped animation file, relative to Dir
}

// Clip returns the clip for key in the requested variant, falling back to the
// default variant when the requested one was not recorded.
func (p *Pack) Clip(key linekey.Key, variant string) (VoiceClip, bool) {
	variants, ok := p.Clips[key]
	if !ok {
		return VoiceClip{}, false
	}
	if clip, ok := variants[variant]; ok {
		return clip, true
	}
	clip, ok := variants["default"]
	return clip, ok
}

// ClipPath returns the absolute path of a clip's audio payload.
func (p *Pack) ClipPath(clip VoiceClip) string {
	return filepath.Join(p.Dir, filepath.FromSlash(clip.File))
}

// LipsyncPath returns the absolute path of a shipped animation, if any.
func (p *Pack) LipsyncPath(key linekey.Key) (string, bool) {
	rel, ok := p.Lipsync[key]
	if !ok {
		return "", false
	}
	return filepath.Join(p.Dir, filepath.FromSlash(rel)), true
}

// Catalog holds every loaded pack keyed by language.
type Catalog struct {
	Packs map[string]*Pack
}

// Pack returns the pack for a language.
func (c *Catalog) Pack(lang string) (*Pack, bool) {
	p, ok := c.Packs[lang]
	return p, ok
}

// Languages returns the cataloged languages in sorted order.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.Packs))
	for lang := range c.Packs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Keys returns the union of all packs' voice line keys, sorted.
func (c *Catalog) Keys() []linekey.Key {
	seen := make(map[linekey.Key]struct{})
	for _, pack := range c.Packs {
		for key := range pack.Clips {
			seen[key] = struct{}{}
		}
	}
	keys := make([]linekey.Key, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	linekey.SortKeys(keys)
	return keys
}

// Load reads every pack under packsDir. Each immediate subdirectory named by a
// recognized language identifier becomes one pack; anything else is skipped
// with a log line. Every declared asset must exist and parse.
func Load(packsDir string, logger *slog.Logger) (*Catalog, error) {
	log := logging.NewComponentLogger(logger, "catalog")

	entries, err := os.ReadDir(packsDir)
	if err != nil {
		return nil, &Error{Kind: MissingAsset, Path: packsDir, Err: err}
	}

	catalog := &Catalog{Packs: make(map[string]*Pack)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := language.Normalize(entry.Name())
		if lang == "" {
			log.Debug("skipping unrecognized pack directory", logging.String("dir", entry.Name()))
			continue
		}
		pack, err := loadPack(filepath.Join(packsDir, entry.Name()), lang)
		if err != nil {
			return nil, err
		}
		catalog.Packs[lang] = pack
		log.Info("pack loaded",
			logging.String(logging.FieldPack, lang),
			logging.Int("clips", len(pack.Clips)),
			logging.Int("subtitles", len(pack.Subtitles)),
		)
	}

	if len(catalog.Packs) == 0 {
		return nil, &Error{Kind: MissingAsset, Path: packsDir, Err: fmt.Errorf("no localization packs found")}
	}
	return catalog, nil
}

func loadPack(dir, lang string) (*Pack, error) {
	pack := &Pack{
		Language:    lang,
		Dir:         dir,
		Clips:       make(map[linekey.Key]map[string]VoiceClip),
		Identity:    make(map[linekey.Key]IdentityEntry),
		Timing:      make(map[linekey.Key]TimingRecord),
		SceneBounds: make(map[string]float64),
		Subtitles:   make(map[linekey.Key]SubtitleEntry),
		Lipsync:     make(map[linekey.Key]string),
	}

	if err := loadVoices(pack); err != nil {
		return nil, err
	}
	if err := loadJSONTable(pack, "identity.json", &pack.Identity); err != nil {
		return nil, err
	}
	if err := loadTiming(pack); err != nil {
		return nil, err
	}
	if err := loadJSONTable(pack, "subtitles.json", &pack.Subtitles); err != nil {
		return nil, err
	}
	if err := loadLipsync(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

func loadVoices(pack *Pack) error {
	path := filepath.Join(pack.Dir, "voices.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: MissingAsset, Pack: pack.Language, Path: path, Err: err}
	}

	var clips []VoiceClip
	if err := json.Unmarshal(data, &clips); err != nil {
		return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Err: err}
	}

	for _, clip := range clips {
		if clip.Key.IsZero() || clip.File == "" {
			return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Err: fmt.Errorf("clip missing key or file")}
		}
		if clip.Duration <= 0 {
			return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Key: clip.Key.String(), Err: fmt.Errorf("non-positive duration %v", clip.Duration)}
		}
		variant := clip.Variant
		if variant == "" {
			variant = "default"
			clip.Variant = variant
		}
		clip.Language = pack.Language

		if _, err := os.Stat(pack.ClipPath(clip)); err != nil {
			return &Error{Kind: MissingAsset, Pack: pack.Language, Path: pack.ClipPath(clip), Key: clip.Key.String(), Err: err}
		}

		variants, ok := pack.Clips[clip.Key]
		if !ok {
			variants = make(map[string]VoiceClip, 1)
			pack.Clips[clip.Key] = variants
		}
		if _, dup := variants[variant]; dup {
			return &Error{Kind: DuplicateLineKey, Pack: pack.Language, Path: path, Key: clip.Key.String()}
		}
		variants[variant] = clip
	}
	return nil
}

// loadJSONTable decodes a map keyed by canonical line-key strings. Decoding
// goes through linekey.UnmarshalText, so malformed keys fail the load.
func loadJSONTable[T any](pack *Pack, name string, dst *map[linekey.Key]T) error {
	path := filepath.Join(pack.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: MissingAsset, Pack: pack.Language, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Err: err}
	}
	return nil
}

func loadTiming(pack *Pack) error {
	path := filepath.Join(pack.Dir, "timing.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: MissingAsset, Pack: pack.Language, Path: path, Err: err}
	}

	var file timingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Err: err}
	}

	for raw, record := range file.Entries {
		key, err := linekey.Parse(raw)
		if err != nil {
			return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Key: raw, Err: err}
		}
		if record.Duration < 0 {
			return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Key: raw, Err: fmt.Errorf("negative window duration")}
		}
		pack.Timing[key] = record
	}
	pack.SceneBounds = file.Scenes
	if pack.SceneBounds == nil {
		pack.SceneBounds = make(map[string]float64)
	}
	return nil
}

func loadLipsync(pack *Pack) error {
	path := filepath.Join(pack.Dir, "lipsync.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A pack may ship no lip animations at all; synthesis covers it.
			return nil
		}
		return &Error{Kind: MissingAsset, Pack: pack.Language, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, &pack.Lipsync); err != nil {
		return &Error{Kind: MalformedRecord, Pack: pack.Language, Path: path, Err: err}
	}
	for key, rel := range pack.Lipsync {
		full := filepath.Join(pack.Dir, filepath.FromSlash(rel))
		if _, err := os.Stat(full); err != nil {
			return &Error{Kind: MissingAsset, Pack: pack.Language, Path: full, Key: key.String(), Err: err}
		}
	}
	return nil
}
