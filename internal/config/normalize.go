package config

import (
	"strings"

	"polyvox/internal/language"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.PacksDir, err = expandPath(c.Paths.PacksDir); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.History.Path) != "" {
		if c.History.Path, err = expandPath(c.History.Path); err != nil {
			return err
		}
	}

	c.Merge.DefaultLanguage = normalizeLanguage(c.Merge.DefaultLanguage)
	c.Merge.SubtitleLanguage = normalizeLanguage(c.Merge.SubtitleLanguage)
	c.Merge.PlayerSpeaker = strings.ToLower(strings.TrimSpace(c.Merge.PlayerSpeaker))
	c.Merge.VoiceVariant = strings.ToLower(strings.TrimSpace(c.Merge.VoiceVariant))

	c.Speakers = normalizeLanguageMap(c.Speakers)
	c.Polyglot.Overrides = normalizeLanguageMap(c.Polyglot.Overrides)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// normalizeLanguage maps any recognized identifier to a short pack code,
// passing unrecognized values through for Validate to reject with context.
func normalizeLanguage(value string) string {
	trimmed := strings.TrimSpace(value)
	if mapped := language.Normalize(trimmed); mapped != "" {
		return mapped
	}
	return strings.ToLower(trimmed)
}

func normalizeLanguageMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for speaker, lang := range m {
		speaker = strings.ToLower(strings.TrimSpace(speaker))
		if speaker == "" {
			continue
		}
		out[speaker] = normalizeLanguage(lang)
	}
	return out
}
