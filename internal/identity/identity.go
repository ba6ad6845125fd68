// Package identity rebuilds the output identity map from each line's selected
// recording. The selected clip is the source of truth for character and
// gender; resource paths get their channel folder substituted per line.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
)

// folderPlaceholder is the channel slot inside pack resource paths.
const folderPlaceholder = "[folder]"

// Correct writes one identity entry per planned line into the build.
func Correct(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "identity")

	corrected := 0
	for _, key := range plan.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}

		assigned := plan.Audio[key]
		entry, fromLang, ok := lookupEntry(cat, key, assigned.Language, cfg.Merge.DefaultLanguage)
		if !ok {
			warnings.Add(report.Warning{
				Stage:  "identity",
				Key:    key.String(),
				Reason: report.ReasonIdentityFallback,
				Detail: "no identity entry in any consulted pack",
			})
			continue
		}
		if fromLang != assigned.Language {
			warnings.Add(report.Warning{
				Stage:  "identity",
				Key:    key.String(),
				Reason: report.ReasonIdentityFallback,
				Detail: fmt.Sprintf("pack %s has no identity entry, kept %s", assigned.Language, fromLang),
			})
		}

		if pack, ok := cat.Pack(assigned.Language); ok {
			if clip, ok := pack.Clip(key, assigned.Variant); ok && clip.Gender != "" && clip.Gender != entry.Gender {
				log.Info("gender corrected from selected clip",
					logging.String(logging.FieldLineKey, key.String()),
					logging.String("was", string(entry.Gender)),
					logging.String("now", string(clip.Gender)),
				)
				entry.Gender = clip.Gender
				if clip.Character != "" {
					entry.Character = clip.Character
				}
			}
		}

		entry.FemaleResPath = substituteChannel(entry.FemaleResPath, key.Channel)
		entry.MaleResPath = substituteChannel(entry.MaleResPath, key.Channel)

		if cfg.Merge.VoiceSwap && key.Speaker == cfg.Merge.PlayerSpeaker {
			entry.FemaleResPath, entry.MaleResPath = entry.MaleResPath, entry.FemaleResPath
		}

		build.Identity[key] = entry
		corrected++
	}

	log.Info("identity map rebuilt", logging.Int("entries", corrected))
	return nil
}

// lookupEntry prefers the selected pack's record and falls back to the
// default pack's existing entry.
func lookupEntry(cat *catalog.Catalog, key linekey.Key, lang, fallbackLang string) (catalog.IdentityEntry, string, bool) {
	if pack, ok := cat.Pack(lang); ok {
		if entry, ok := pack.Identity[key]; ok {
			return entry, lang, true
		}
	}
	if lang != fallbackLang {
		if pack, ok := cat.Pack(fallbackLang); ok {
			if entry, ok := pack.Identity[key]; ok {
				return entry, fallbackLang, true
			}
		}
	}
	return catalog.IdentityEntry{}, "", false
}

func substituteChannel(resPath string, channel linekey.Channel) string {
	if resPath == "" {
		return ""
	}
	return strings.ReplaceAll(resPath, folderPlaceholder, string(channel))
}
