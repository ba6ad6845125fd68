// Package voiceover copies each line's assigned audio payload into the staged
// output pack. Copies are size and hash verified; a payload that disappeared
// since cataloging degrades that line only.
package voiceover

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/fileutil"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
	"polyvox/internal/services"
	"polyvox/internal/textutil"
)

// Merge stages the assigned clip for every planned line. At most one clip per
// key ends up in the output pack.
func Merge(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "voiceover")

	if err := os.MkdirAll(build.AudioDir(), 0o755); err != nil {
		return services.Wrap(services.ErrAssembly, "voiceover", "stage audio", "", err)
	}

	copied := 0
	for _, key := range plan.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}

		assigned := plan.Audio[key]
		pack, ok := cat.Pack(assigned.Language)
		if !ok {
			warnings.Add(report.Warning{
				Stage:  "voiceover",
				Key:    key.String(),
				Reason: report.ReasonClipMissing,
				Detail: fmt.Sprintf("pack %s not cataloged", assigned.Language),
			})
			continue
		}
		clip, ok := pack.Clip(key, assigned.Variant)
		if !ok {
			warnings.Add(report.Warning{
				Stage:  "voiceover",
				Key:    key.String(),
				Reason: report.ReasonClipMissing,
				Detail: fmt.Sprintf("pack %s has no %s recording", assigned.Language, assigned.Variant),
			})
			continue
		}

		rel := "audio/" + FileName(key)
		digest, err := fileutil.CopyFileVerified(pack.ClipPath(clip), build.Path(rel))
		if err != nil {
			warnings.Add(report.Warning{
				Stage:  "voiceover",
				Key:    key.String(),
				Reason: report.ReasonClipMissing,
				Detail: err.Error(),
			})
			log.Warn("clip copy failed",
				logging.String(logging.FieldLineKey, key.String()),
				logging.Error(err),
			)
			continue
		}

		build.Audio[key] = output.MergedClip{
			Key:      key,
			File:     rel,
			Language: clip.Language,
			Variant:  clip.Variant,
			Duration: clip.Duration,
			SHA256:   digest,
		}
		copied++
	}

	log.Info("voiceover merged", logging.Int("clips", copied))
	return nil
}

// FileName is the staged payload name for a line, stable across runs and
// unique per key.
func FileName(key linekey.Key) string {
	return textutil.FileToken(key.String()) + ".wem"
}
