// Package testsupport builds on-disk localization pack fixtures for tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"polyvox/internal/textutil"
)

// ClipSpec describes one voice clip to write into a fixture pack.
type ClipSpec struct {
	Key       string
	Variant   string
	Duration  float64
	Character string
	Gender    string
	Payload   []byte
}

// IdentitySpec mirrors one identity.json entry.
type IdentitySpec struct {
	Character     string `json:"character"`
	Gender        string `json:"gender"`
	FemaleResPath string `json:"female_res_path,omitempty"`
	MaleResPath   string `json:"male_res_path,omitempty"`
}

// TimingSpec mirrors one timing.json window.
type TimingSpec struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// SubtitleSpec mirrors one subtitles.json entry.
type SubtitleSpec struct {
	Text          string `json:"text"`
	Language      string `json:"language,omitempty"`
	EffectApplied bool   `json:"effect_applied,omitempty"`
}

// PackSpec describes one language pack. Zero-value sections are written as
// empty tables so every loaded pack is structurally complete.
type PackSpec struct {
	Clips     []ClipSpec
	Identity  map[string]IdentitySpec
	Scenes    map[string]float64
	Timing    map[string]TimingSpec
	Subtitles map[string]SubtitleSpec

	// Lipsync maps line keys to animation payload bytes. Each entry becomes a
	// shipped .anim file referenced from lipsync.json.
	Lipsync map[string][]byte
}

type clipRecord struct {
	Key       string  `json:"key"`
	File      string  `json:"file"`
	Duration  float64 `json:"duration"`
	Variant   string  `json:"variant,omitempty"`
	Character string  `json:"character"`
	Gender    string  `json:"gender"`
}

// WritePack materializes spec as packsDir/lang and returns the pack directory.
func WritePack(t *testing.T, packsDir, lang string, spec PackSpec) string {
	t.Helper()

	dir := filepath.Join(packsDir, lang)
	if err := os.MkdirAll(filepath.Join(dir, "audio"), 0o755); err != nil {
		t.Fatal(err)
	}

	clips := make([]clipRecord, 0, len(spec.Clips))
	for _, clip := range spec.Clips {
		rel := clipFileName(clip)
		payload := clip.Payload
		if payload == nil {
			payload = []byte(lang + ":" + clip.Key)
		}
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), payload)
		duration := clip.Duration
		if duration == 0 {
			duration = 1.5
		}
		clips = append(clips, clipRecord{
			Key:       clip.Key,
			File:      rel,
			Duration:  duration,
			Variant:   clip.Variant,
			Character: clip.Character,
			Gender:    clip.Gender,
		})
	}
	writeJSON(t, filepath.Join(dir, "voices.json"), clips)

	if spec.Identity == nil {
		spec.Identity = map[string]IdentitySpec{}
	}
	writeJSON(t, filepath.Join(dir, "identity.json"), spec.Identity)

	if spec.Scenes == nil {
		spec.Scenes = map[string]float64{}
	}
	if spec.Timing == nil {
		spec.Timing = map[string]TimingSpec{}
	}
	writeJSON(t, filepath.Join(dir, "timing.json"), map[string]any{
		"scenes":  spec.Scenes,
		"entries": spec.Timing,
	})

	if spec.Subtitles == nil {
		spec.Subtitles = map[string]SubtitleSpec{}
	}
	writeJSON(t, filepath.Join(dir, "subtitles.json"), spec.Subtitles)

	if len(spec.Lipsync) > 0 {
		if err := os.MkdirAll(filepath.Join(dir, "lipsync"), 0o755); err != nil {
			t.Fatal(err)
		}
		table := make(map[string]string, len(spec.Lipsync))
		for key, payload := range spec.Lipsync {
			rel := "lipsync/" + sanitize(key) + ".anim"
			if payload == nil {
				payload = []byte("anim:" + key)
			}
			writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), payload)
			table[key] = rel
		}
		writeJSON(t, filepath.Join(dir, "lipsync.json"), table)
	}

	return dir
}

func clipFileName(clip ClipSpec) string {
	name := sanitize(clip.Key)
	if clip.Variant != "" && clip.Variant != "default" {
		name += "_" + clip.Variant
	}
	return "audio/" + name + ".wem"
}

func sanitize(key string) string {
	return textutil.SanitizeToken(key)
}

func writeJSON(t *testing.T, path string, value any) {
	t.Helper()
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, append(data, '\n'))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
