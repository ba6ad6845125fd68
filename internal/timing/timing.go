// Package timing rebuilds the playback timeline so every window covers its
// selected clip. Longer recordings push the starts of later lines in the same
// scene forward; nothing ever shrinks a neighbor. Scene boundaries are hard:
// a window running past one is clamped.
package timing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
)

// Adjust computes the output timing table for every planned line.
func Adjust(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "timing")

	baseline, _ := cat.Pack(cfg.Merge.DefaultLanguage)
	if baseline != nil {
		for scene, bound := range baseline.SceneBounds {
			build.SceneBounds[scene] = bound
		}
	}

	scenes := groupByScene(plan.Keys())
	sceneNames := make([]string, 0, len(scenes))
	for scene := range scenes {
		sceneNames = append(sceneNames, scene)
	}
	sort.Strings(sceneNames)

	extended := 0
	for _, scene := range sceneNames {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := adjustScene(cat, plan, cfg, build, warnings, log, scene, scenes[scene])
		if err != nil {
			return err
		}
		extended += n
	}

	log.Info("timeline adjusted",
		logging.Int("lines", len(build.Timing)),
		logging.Int("extended", extended),
	)
	return nil
}

func adjustScene(cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, build *output.Build, warnings *report.Collector, log *slog.Logger, scene string, keys []linekey.Key) (int, error) {
	baseline, _ := cat.Pack(cfg.Merge.DefaultLanguage)

	type line struct {
		key    linekey.Key
		window catalog.TimingRecord
	}
	lines := make([]line, 0, len(keys))
	sceneEnd := 0.0
	for _, key := range keys {
		window, ok := lookupWindow(cat, plan, cfg, key)
		if !ok {
			clipDuration := selectedClipDuration(cat, plan, key)
			window = catalog.TimingRecord{Start: sceneEnd, Duration: clipDuration}
			warnings.Add(report.Warning{
				Stage:  "timing",
				Key:    key.String(),
				Reason: report.ReasonTimingMissing,
				Detail: "no timing window in any consulted pack, synthesized from clip duration",
			})
		}
		if end := window.End(); end > sceneEnd {
			sceneEnd = end
		}
		lines = append(lines, line{key: key, window: window})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].window.Start != lines[j].window.Start {
			return lines[i].window.Start < lines[j].window.Start
		}
		return lines[i].key.String() < lines[j].key.String()
	})

	bound := math.Inf(1)
	if baseline != nil {
		if b, ok := baseline.SceneBounds[scene]; ok {
			bound = b
		}
	}

	extended := 0
	shift := 0.0
	for _, l := range lines {
		window := l.window
		window.Start += shift

		clipDuration := selectedClipDuration(cat, plan, l.key)
		if clipDuration > window.Duration {
			delta := clipDuration - window.Duration
			window.Duration = clipDuration
			shift += delta
			extended++
			log.Debug("window extended",
				logging.String(logging.FieldLineKey, l.key.String()),
				logging.Float64("delta", delta),
			)
		}

		if window.End() > bound {
			over := window.End() - bound
			if window.Start >= bound {
				window.Start = bound
				window.Duration = 0
			} else {
				window.Duration = bound - window.Start
			}
			warnings.Add(report.Warning{
				Stage:  "timing",
				Key:    l.key.String(),
				Reason: report.ReasonTimingClamp,
				Detail: fmt.Sprintf("window overruns scene %s boundary by %.3fs, clamped", scene, over),
			})
		}

		build.Timing[l.key] = window
	}
	return extended, nil
}

// lookupWindow prefers the baseline timeline and falls back to the selected
// pack's window.
func lookupWindow(cat *catalog.Catalog, plan *assignment.Plan, cfg *config.Config, key linekey.Key) (catalog.TimingRecord, bool) {
	if pack, ok := cat.Pack(cfg.Merge.DefaultLanguage); ok {
		if window, ok := pack.Timing[key]; ok {
			return window, true
		}
	}
	if pack, ok := cat.Pack(plan.Audio[key].Language); ok {
		if window, ok := pack.Timing[key]; ok {
			return window, true
		}
	}
	return catalog.TimingRecord{}, false
}

func selectedClipDuration(cat *catalog.Catalog, plan *assignment.Plan, key linekey.Key) float64 {
	assigned := plan.Audio[key]
	if pack, ok := cat.Pack(assigned.Language); ok {
		if clip, ok := pack.Clip(key, assigned.Variant); ok {
			return clip.Duration
		}
	}
	return 0
}

func groupByScene(keys []linekey.Key) map[string][]linekey.Key {
	scenes := make(map[string][]linekey.Key)
	for _, key := range keys {
		scenes[key.Scene] = append(scenes[key.Scene], key)
	}
	return scenes
}
