package config

import (
	"fmt"
	"strings"

	"polyvox/internal/language"
)

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.PacksDir) == "" {
		return fmt.Errorf("paths.packs_dir is required")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	if c.Paths.OutputDir == c.Paths.PacksDir {
		return fmt.Errorf("paths.output_dir must differ from paths.packs_dir")
	}

	if !language.Known(c.Merge.DefaultLanguage) {
		return fmt.Errorf("merge.default_language: unknown language %q", c.Merge.DefaultLanguage)
	}
	if !language.Known(c.Merge.SubtitleLanguage) {
		return fmt.Errorf("merge.subtitle_language: unknown language %q", c.Merge.SubtitleLanguage)
	}
	if c.Merge.PlayerSpeaker == "" {
		return fmt.Errorf("merge.player_speaker is required")
	}

	switch c.Merge.VoiceVariant {
	case VariantDefault, VariantAlternate:
	default:
		return fmt.Errorf("merge.voice_variant: must be %q or %q, got %q", VariantDefault, VariantAlternate, c.Merge.VoiceVariant)
	}

	for speaker, lang := range c.Speakers {
		if !language.Known(lang) {
			return fmt.Errorf("speakers.%s: unknown language %q", speaker, lang)
		}
	}
	for speaker, lang := range c.Polyglot.Overrides {
		if !language.Known(lang) {
			return fmt.Errorf("polyglot.overrides.%s: unknown language %q", speaker, lang)
		}
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
