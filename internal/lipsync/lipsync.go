// Package lipsync stages a lip animation for every merged line. Packs that
// ship a recorded animation get it copied through; everything else gets a
// deterministic track synthesized from the clip payload, so reruns over the
// same inputs produce byte-identical animations.
package lipsync

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

// Generate stages one animation per planned line.
func Generate(ctx context.Context, cat *catalog.Catalog, plan *assignment.Plan, build *output.Build, warnings *report.Collector, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "lipsync")

	if err := os.MkdirAll(build.LipsyncDir(), 0o755); err != nil {
		return services.Wrap(services.ErrAssembly, "lipsync", "stage animations", "", err)
	}

	shipped, synthesized := 0, 0
	for _, key := range plan.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}

		assigned := plan.Audio[key]
		pack, ok := cat.Pack(assigned.Language)
		if !ok {
			continue
		}

		rel := "lipsync/" + FileName(key)
		src, haveShipped := pack.LipsyncPath(key)
		if haveShipped {
			_, err := fileutil.CopyFileVerified(src, build.Path(rel))
			if err == nil {
				build.Lipsync[key] = output.LipAnimation{File: rel}
				shipped++
				continue
			}
			// An unreadable shipped animation degrades this line to a
			// synthesized track; the line itself still merges.
			warnings.Add(report.Warning{
				Stage:  "lipsync",
				Key:    key.String(),
				Reason: report.ReasonSilentLip,
				Detail: "shipped animation unreadable, track synthesized instead: " + err.Error(),
			})
			log.Warn("shipped animation unreadable",
				logging.String(logging.FieldLineKey, key.String()),
				logging.Error(err),
			)
		}

		clip, haveClip := pack.Clip(key, assigned.Variant)
		if !haveClip && !haveShipped {
			continue
		}
		var payload []byte
		var duration float64
		if haveClip {
			duration = clip.Duration
			if data, err := os.ReadFile(pack.ClipPath(clip)); err == nil {
				payload = data
			}
		}

		track := Synthesize(payload, duration)
		if track.Silent && !haveShipped {
			warnings.Add(report.Warning{
				Stage:  "lipsync",
				Key:    key.String(),
				Reason: report.ReasonSilentLip,
				Detail: fmt.Sprintf("no usable payload in pack %s, silent track emitted", assigned.Language),
			})
			log.Warn("silent lip track",
				logging.String(logging.FieldLineKey, key.String()),
				logging.String(logging.FieldPack, assigned.Language),
			)
		}
		if err := fileutil.WriteFileAtomic(build.Path(rel), track.Encode(), 0o644); err != nil {
			return services.Wrap(services.ErrAssembly, "lipsync", "write track", key.String(), err)
		}
		build.Lipsync[key] = output.LipAnimation{File: rel, Synthesized: true}
		synthesized++
	}

	log.Info("lipsync staged",
		logging.Int("shipped", shipped),
		logging.Int("synthesized", synthesized),
	)
	return nil
}

// FileName is the staged animation name for a line, unique per key.
func FileName(key linekey.Key) string {
	return textutil.FileToken(key.String()) + ".anim"
}
