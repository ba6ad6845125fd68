package assignment

import (
	"fmt"
	"log/slog"

	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/report"
	"polyvox/internal/services"
)

// Assignment is the resolved audio source for one line.
type Assignment struct {
	Language string
	Variant  string
	// Fallback is set when the chosen language had no recording and the line
	// fell back to the default language.
	Fallback bool
}

// Plan maps every cataloged line to its audio assignment and subtitle
// language. Immutable once returned by Resolve.
type Plan struct {
	Audio    map[linekey.Key]Assignment
	Subtitle map[linekey.Key]string
}

// Keys returns the planned line keys in canonical order.
func (p *Plan) Keys() []linekey.Key {
	keys := make([]linekey.Key, 0, len(p.Audio))
	for key := range p.Audio {
		keys = append(keys, key)
	}
	linekey.SortKeys(keys)
	return keys
}

// Resolve computes the plan for every key in the catalog. Language precedence
// per line: polyglot per-interlocutor override (player lines only), then the
// speaker's entry in [speakers], then the default language. A chosen language
// without a recording for the line falls back to the default language with a
// warning; a line no cataloged pack can serve is a plan inconsistency.
func Resolve(cat *catalog.Catalog, cfg *config.Config, logger *slog.Logger) (*Plan, []report.Warning, error) {
	log := logging.NewComponentLogger(logger, "assignment")

	if _, ok := cat.Pack(cfg.Merge.DefaultLanguage); !ok {
		return nil, nil, services.Wrap(services.ErrPlan, "assignment", "resolve",
			fmt.Sprintf("default language %q has no cataloged pack", cfg.Merge.DefaultLanguage), nil)
	}

	keys := cat.Keys()
	interlocutors := sceneInterlocutors(keys, cfg.Merge.PlayerSpeaker)

	plan := &Plan{
		Audio:    make(map[linekey.Key]Assignment, len(keys)),
		Subtitle: make(map[linekey.Key]string, len(keys)),
	}
	var warnings []report.Warning

	for _, key := range keys {
		lang := chooseLanguage(key, cfg, interlocutors)
		variant := config.VariantDefault
		if key.Speaker == cfg.Merge.PlayerSpeaker {
			variant = cfg.Merge.VoiceVariant
		}

		resolved, fellBack, err := resolveAudio(cat, key, lang, variant, cfg.Merge.DefaultLanguage)
		if err != nil {
			return nil, nil, err
		}
		if fellBack {
			warnings = append(warnings, report.Warning{
				Stage:  "assignment",
				Key:    key.String(),
				Reason: report.ReasonAudioFallback,
				Detail: fmt.Sprintf("no %s recording, using %s", lang, resolved.Language),
			})
			log.Warn("audio fallback",
				logging.String(logging.FieldLineKey, key.String()),
				logging.String("wanted", lang),
				logging.String("using", resolved.Language),
			)
		}

		plan.Audio[key] = resolved
		plan.Subtitle[key] = cfg.Merge.SubtitleLanguage
	}

	log.Info("plan resolved",
		logging.Int("lines", len(plan.Audio)),
		logging.Int("fallbacks", len(warnings)),
	)
	return plan, warnings, nil
}

func chooseLanguage(key linekey.Key, cfg *config.Config, interlocutors map[string]string) string {
	if cfg.Polyglot.Enabled && key.Speaker == cfg.Merge.PlayerSpeaker {
		if other := interlocutors[key.Scene]; other != "" {
			if lang, ok := cfg.Polyglot.Overrides[other]; ok {
				return lang
			}
		}
	}
	if lang, ok := cfg.Speakers[key.Speaker]; ok {
		return lang
	}
	return cfg.Merge.DefaultLanguage
}

func resolveAudio(cat *catalog.Catalog, key linekey.Key, lang, variant, fallbackLang string) (Assignment, bool, error) {
	if pack, ok := cat.Pack(lang); ok {
		if clip, ok := pack.Clip(key, variant); ok {
			return Assignment{Language: lang, Variant: clip.Variant}, false, nil
		}
	}
	if lang != fallbackLang {
		if pack, ok := cat.Pack(fallbackLang); ok {
			if clip, ok := pack.Clip(key, variant); ok {
				return Assignment{Language: fallbackLang, Variant: clip.Variant, Fallback: true}, true, nil
			}
		}
	}
	// The key exists in the catalog union, so some pack recorded it. Use the
	// first cataloged language that has it rather than dropping the line.
	for _, other := range cat.Languages() {
		if other == lang || other == fallbackLang {
			continue
		}
		pack := cat.Packs[other]
		if clip, ok := pack.Clip(key, variant); ok {
			return Assignment{Language: other, Variant: clip.Variant, Fallback: true}, true, nil
		}
	}
	return Assignment{}, false, services.Wrap(services.ErrPlan, "assignment", "resolve",
		fmt.Sprintf("line %s has no recording in any cataloged pack", key), nil)
}

// sceneInterlocutors picks, per scene, the non-player speaker with the most
// lines. Ties break toward the lexicographically smaller speaker so plans are
// deterministic.
func sceneInterlocutors(keys []linekey.Key, player string) map[string]string {
	counts := make(map[string]map[string]int)
	for _, key := range keys {
		if key.Speaker == player {
			continue
		}
		scene := counts[key.Scene]
		if scene == nil {
			scene = make(map[string]int)
			counts[key.Scene] = scene
		}
		scene[key.Speaker]++
	}

	out := make(map[string]string, len(counts))
	for scene, speakers := range counts {
		best := ""
		bestCount := -1
		for speaker, count := range speakers {
			if count > bestCount || (count == bestCount && speaker < best) {
				best = speaker
				bestCount = count
			}
		}
		out[scene] = best
	}
	return out
}
