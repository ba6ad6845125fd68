package catalog

import (
	"polyvox/internal/linekey"
)

// Gender values recorded in identity maps and clip metadata.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// VoiceClip describes one recorded audio payload for a line in one language.
type VoiceClip struct {
	Key       linekey.Key `json:"key"`
	File      string      `json:"file"`
	Duration  float64     `json:"duration"`
	Variant   string      `json:"variant,omitempty"`
	Character string      `json:"character"`
	Gender    Gender      `json:"gender"`

	// Language is the owning pack's language; filled during load.
	Language string `json:"-"`
}

// IdentityEntry binds a line to its speaking character's identity and the
// gendered voice resource paths. Resource paths carry a "[folder]" placeholder
// substituted by the line's channel during identity correction.
type IdentityEntry struct {
	Character     string `json:"character"`
	Gender        Gender `json:"gender"`
	FemaleResPath string `json:"female_res_path,omitempty"`
	MaleResPath   string `json:"male_res_path,omitempty"`
}

// TimingRecord is one playback window in a timing table.
type TimingRecord struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the window end time.
func (r TimingRecord) End() float64 { return r.Start + r.Duration }

// SubtitleEntry is one subtitle line. EffectApplied guards the translation
// effect against double application.
type SubtitleEntry struct {
	Text          string `json:"text"`
	Language      string `json:"language,omitempty"`
	EffectApplied bool   `json:"effect_applied,omitempty"`
}

// timingFile is the on-disk shape of timing.json: per-scene hard boundaries
// plus the window entries.
type timingFile struct {
	Scenes  map[string]float64      `json:"scenes"`
	Entries map[string]TimingRecord `json:"entries"`
}
