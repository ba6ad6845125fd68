package config

// VoiceVariant values accepted by [merge].voice_variant.
const (
	VariantDefault   = "default"
	VariantAlternate = "alternate"
)

// Default returns the baseline configuration applied before a config file is
// decoded over it.
func Default() Config {
	return Config{
		Paths: Paths{
			PacksDir:   "~/polyvox/packs",
			OutputDir:  "~/polyvox/output",
			StagingDir: "~/polyvox/staging",
			LogDir:     "~/polyvox/logs",
		},
		Merge: Merge{
			DefaultLanguage:   "en",
			SubtitleLanguage:  "en",
			PlayerSpeaker:     "v",
			VoiceVariant:      VariantDefault,
			TranslationEffect: true,
		},
		Speakers: map[string]string{},
		Polyglot: Polyglot{
			Enabled:   false,
			Overrides: map[string]string{},
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		History: History{
			Enabled: true,
		},
	}
}
