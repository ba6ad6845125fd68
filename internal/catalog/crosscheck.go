package catalog

import (
	"fmt"

	"polyvox/internal/report"
)

// CrossCheck compares every pack's coverage against the union of known lines.
// Gaps are not fatal at catalog time, stages degrade per line, but surfacing
// them up front makes a sparse pack obvious before a long run.
func (c *Catalog) CrossCheck() []report.Warning {
	keys := c.Keys()
	var warnings []report.Warning

	for _, lang := range c.Languages() {
		pack := c.Packs[lang]
		for _, key := range keys {
			if _, ok := pack.Clips[key]; !ok {
				warnings = append(warnings, report.Warning{
					Stage:  "catalog",
					Key:    key.String(),
					Reason: report.ReasonClipMissing,
					Detail: fmt.Sprintf("pack %s has no recording", lang),
				})
				continue
			}
			if _, ok := pack.Subtitles[key]; !ok {
				warnings = append(warnings, report.Warning{
					Stage:  "catalog",
					Key:    key.String(),
					Reason: report.ReasonSubtitleMissing,
					Detail: fmt.Sprintf("pack %s voices the line but has no subtitle", lang),
				})
			}
		}
	}
	return warnings
}
