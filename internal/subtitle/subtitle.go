// Package subtitle builds the output subtitle track. The subtitle axis is
// independent of the audio axis: a line may speak Japanese while its subtitle
// stays English, in which case the translation effect wraps the text in the
// in-game overlay markup.
package subtitle

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/language"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
)

// Options control the edit pass beyond what configuration carries.
type Options struct {
	// StripEffect removes existing overlay markup instead of applying it,
	// rebuilding a clean subtitle set.
	StripEffect bool
}

// Edit writes one subtitle entry per planned line into the build.
func Edit(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, opts Options, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "subtitle")

	wrapped, stripped := 0, 0
	for _, key := range plan.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}

		subLang := plan.Subtitle[key]
		audioLang := plan.Audio[key].Language

		entry, fromLang, ok := lookupSubtitle(cat, key, subLang, audioLang, cfg.Merge.DefaultLanguage)
		if !ok {
			warnings.Add(report.Warning{
				Stage:  "subtitle",
				Key:    key.String(),
				Reason: report.ReasonSubtitleMissing,
				Detail: "no subtitle in any consulted pack",
			})
			continue
		}
		if fromLang != subLang {
			warnings.Add(report.Warning{
				Stage:  "subtitle",
				Key:    key.String(),
				Reason: report.ReasonSubtitleMissing,
				Detail: fmt.Sprintf("pack %s has no subtitle, kept %s", subLang, fromLang),
			})
		}

		switch {
		case opts.StripEffect:
			if text, ok := StripEffect(entry.Text); ok {
				entry.Text = text
				entry.EffectApplied = false
				stripped++
			}
		// Compare against the language that actually supplied the text: a
		// subtitle that fell back to the audio language has nothing to
		// translate.
		case cfg.Merge.TranslationEffect && audioLang != fromLang && !entry.EffectApplied && !HasEffect(entry.Text):
			spoken := entry.Text
			if audioPack, ok := cat.Pack(audioLang); ok {
				if audioEntry, ok := audioPack.Subtitles[key]; ok {
					spoken = audioEntry.Text
				}
			}
			entry.Text = WrapEffect(language.EffectCode(audioLang), spoken, entry.Text)
			entry.EffectApplied = true
			wrapped++
		}

		entry.Text = norm.NFC.String(entry.Text)
		entry.Language = fromLang
		build.Subtitles[key] = entry
	}

	log.Info("subtitles edited",
		logging.Int("lines", len(build.Subtitles)),
		logging.Int("effects", wrapped),
		logging.Int("stripped", stripped),
	)
	return nil
}

// lookupSubtitle prefers the subtitle-language pack, then the audio pack,
// then the default pack.
func lookupSubtitle(cat *catalog.Catalog, key linekey.Key, subLang, audioLang, defaultLang string) (catalog.SubtitleEntry, string, bool) {
	for _, lang := range []string{subLang, audioLang, defaultLang} {
		if pack, ok := cat.Pack(lang); ok {
			if entry, ok := pack.Subtitles[key]; ok {
				return entry, lang, true
			}
		}
	}
	return catalog.SubtitleEntry{}, "", false
}
