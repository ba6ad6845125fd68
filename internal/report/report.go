// Package report models the consolidated outcome of a merge run: the final
// status plus every per-line degradation collected across stages. Recoverable
// issues never abort a run, but every one of them must surface here.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"polyvox/internal/fileutil"
)

// Status is the user-visible outcome of a run.
type Status string

const (
	StatusClean    Status = "clean"
	StatusWarnings Status = "completed_with_warnings"
	StatusAborted  Status = "aborted"
)

// Reason codes for per-line warnings.
const (
	ReasonAudioFallback    = "audio_fallback"
	ReasonClipMissing      = "clip_missing"
	ReasonSilentLip        = "silent_lip"
	ReasonIdentityFallback = "identity_fallback"
	ReasonTimingClamp      = "timing_clamp"
	ReasonTimingMissing    = "timing_missing"
	ReasonSubtitleMissing  = "subtitle_missing"
)

// Warning records one recoverable per-line issue.
type Warning struct {
	Stage  string `json:"stage"`
	Key    string `json:"line_key,omitempty"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Reason, w.Detail)
	}
	return fmt.Sprintf("[%s] %s %s: %s", w.Stage, w.Key, w.Reason, w.Detail)
}

// Report is the structured result handed to the CLI and the history store.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     Status    `json:"status"`
	Lines      int       `json:"lines_merged"`
	Warnings   []Warning `json:"warnings,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Resolve sets the final status from the collected state. An explicit error
// always wins.
func (r *Report) Resolve() {
	switch {
	case r.Error != "":
		r.Status = StatusAborted
	case len(r.Warnings) > 0:
		r.Status = StatusWarnings
	default:
		r.Status = StatusClean
	}
}

// Summary renders the one-line outcome shown at the end of a run.
func (r *Report) Summary() string {
	switch r.Status {
	case StatusAborted:
		return fmt.Sprintf("run %s aborted: %s", r.RunID, r.Error)
	case StatusWarnings:
		return fmt.Sprintf("run %s completed with %d warnings (%d lines merged)", r.RunID, len(r.Warnings), r.Lines)
	default:
		return fmt.Sprintf("run %s clean (%d lines merged)", r.RunID, r.Lines)
	}
}

// WriteFile persists the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// Collector accumulates warnings from concurrently running stages.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// Add appends warnings. Safe for concurrent use.
func (c *Collector) Add(warnings ...Warning) {
	if len(warnings) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, warnings...)
}

// Warnings returns the collected warnings sorted by stage then line key so
// reports are deterministic regardless of stage scheduling.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
