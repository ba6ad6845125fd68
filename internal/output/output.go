// Package output holds the in-flight result of a merge run. Each merge stage
// owns exactly one section of the Build and no two stages touch the same one,
// which is what makes the stage fan-out safe without locking.
package output

import (
	"path/filepath"

	"polyvox/internal/catalog"
	"polyvox/internal/linekey"
)

// MergedClip records one audio payload staged for the output pack.
type MergedClip struct {
	Key      linekey.Key `json:"key"`
	File     string      `json:"file"`
	Language string      `json:"language"`
	Variant  string      `json:"variant"`
	Duration float64     `json:"duration"`
	SHA256   string      `json:"sha256"`
}

// LipAnimation records one staged lip animation and how it was produced.
type LipAnimation struct {
	File        string `json:"file"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

// Build accumulates stage results under a run's staging directory.
type Build struct {
	StagingDir string

	// Section ownership: Audio is written only by the voiceover stage,
	// Lipsync only by the lipsync stage, Identity only by the identity stage,
	// Timing and SceneBounds only by the timing stage, Subtitles only by the
	// subtitle stage.
	Audio       map[linekey.Key]MergedClip
	Lipsync     map[linekey.Key]LipAnimation
	Identity    map[linekey.Key]catalog.IdentityEntry
	Timing      map[linekey.Key]catalog.TimingRecord
	SceneBounds map[string]float64
	Subtitles   map[linekey.Key]catalog.SubtitleEntry
}

// New allocates every section up front so stages never race on map creation.
func New(stagingDir string) *Build {
	return &Build{
		StagingDir:  stagingDir,
		Audio:       make(map[linekey.Key]MergedClip),
		Lipsync:     make(map[linekey.Key]LipAnimation),
		Identity:    make(map[linekey.Key]catalog.IdentityEntry),
		Timing:      make(map[linekey.Key]catalog.TimingRecord),
		SceneBounds: make(map[string]float64),
		Subtitles:   make(map[linekey.Key]catalog.SubtitleEntry),
	}
}

// AudioDir is where the voiceover stage places payloads.
func (b *Build) AudioDir() string { return filepath.Join(b.StagingDir, "audio") }

// LipsyncDir is where the lipsync stage places animations.
func (b *Build) LipsyncDir() string { return filepath.Join(b.StagingDir, "lipsync") }

// Path resolves a staged file's relative path.
func (b *Build) Path(rel string) string {
	return filepath.Join(b.StagingDir, filepath.FromSlash(rel))
}
