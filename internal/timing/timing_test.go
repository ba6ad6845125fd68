package timing_test

import (
	"context"
	"math"
	"testing"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
	"polyvox/internal/testsupport"
	"polyvox/internal/timing"
)

func adjust(t *testing.T, packsDir string, cfg *config.Config) (*output.Build, *report.Collector) {
	t.Helper()
	cat, err := catalog.Load(packsDir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	plan, _, err := assignment.Resolve(cat, cfg, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	build := output.New(t.TempDir())
	var warnings report.Collector
	if err := timing.Adjust(context.Background(), cat, plan, cfg, build, &warnings, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	return build, &warnings
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAdjustKeepsCoveredWindows(t *testing.T) {
	packsDir := t.TempDir()
	testsupport.WritePack(t, packsDir, "en", testsupport.BasicPack("en"))

	cfg := config.Default()
	cfg.Merge.DefaultLanguage = "en"

	build, warnings := adjust(t, packsDir, &cfg)
	if got := warnings.Warnings(); len(got) != 0 {
		t.Fatalf("unexpected warnings: %v", got)
	}

	for key, window := range build.Timing {
		if window.Duration < 1.0 {
			t.Fatalf("window shrunk for %s: %+v", key, window)
		}
	}
	judy := build.Timing[linekey.MustParse("judy/q101/0002.vo")]
	if !near(judy.Start, 2.0) || !near(judy.Duration, 2.0) {
		t.Fatalf("covered window changed: %+v", judy)
	}
}

func TestAdjustExtendsAndShiftsFollowers(t *testing.T) {
	packsDir := t.TempDir()
	testsupport.WritePack(t, packsDir, "en", testsupport.BasicPack("en"))

	// The fr recording of judy's line runs 2.6s against a 2.0s window.
	fr := testsupport.BasicPack("fr")
	for i := range fr.Clips {
		if fr.Clips[i].Key == "judy/q101/0002.vo" {
			fr.Clips[i].Duration = 2.6
		}
	}
	testsupport.WritePack(t, packsDir, "fr", fr)

	cfg := config.Default()
	cfg.Merge.DefaultLanguage = "en"
	cfg.Speakers = map[string]string{"judy": "fr"}

	build, warnings := adjust(t, packsDir, &cfg)
	if got := warnings.Warnings(); len(got) != 0 {
		t.Fatalf("unexpected warnings: %v", got)
	}

	extended := build.Timing[linekey.MustParse("judy/q101/0002.vo")]
	if !near(extended.Duration, 2.6) || !near(extended.Start, 2.0) {
		t.Fatalf("extended window: %+v", extended)
	}

	// The holocall line also moved to fr but its clip fits its window; only
	// the start shifts, by at least the 0.6s delta.
	follower := build.Timing[linekey.MustParse("judy/q101/0003.vo_holocall")]
	if follower.Start < 4.5+0.6-1e-9 {
		t.Fatalf("follower not shifted: %+v", follower)
	}
	if follower.Duration < 1.2 {
		t.Fatalf("follower shrunk: %+v", follower)
	}

	// Earlier line in the scene is untouched.
	player := build.Timing[linekey.MustParse("v/q101/0001.vo")]
	if !near(player.Start, 0.0) || !near(player.Duration, 1.8) {
		t.Fatalf("earlier window changed: %+v", player)
	}
}

func TestAdjustClampsAtSceneBoundary(t *testing.T) {
	packsDir := t.TempDir()
	spec := testsupport.BasicPack("en")
	spec.Scenes = map[string]float64{"q101": 5.0}
	for i := range spec.Clips {
		if spec.Clips[i].Key == "judy/q101/0002.vo" {
			spec.Clips[i].Duration = 2.6
		}
	}
	testsupport.WritePack(t, packsDir, "en", spec)

	cfg := config.Default()
	cfg.Merge.DefaultLanguage = "en"

	build, warnings := adjust(t, packsDir, &cfg)

	got := warnings.Warnings()
	if len(got) != 1 || got[0].Reason != report.ReasonTimingClamp || got[0].Key != "judy/q101/0003.vo_holocall" {
		t.Fatalf("warnings: %v", got)
	}

	// Start 4.5 + 0.6 shift = 5.1, past the 5.0 boundary.
	clamped := build.Timing[linekey.MustParse("judy/q101/0003.vo_holocall")]
	if !near(clamped.Start, 5.0) || !near(clamped.Duration, 0.0) {
		t.Fatalf("clamped window: %+v", clamped)
	}
	if build.SceneBounds["q101"] != 5.0 {
		t.Fatalf("scene bounds not carried: %v", build.SceneBounds)
	}
}

func TestAdjustSynthesizesMissingWindow(t *testing.T) {
	packsDir := t.TempDir()
	spec := testsupport.BasicPack("en")
	delete(spec.Timing, "judy/q101/0003.vo_holocall")
	testsupport.WritePack(t, packsDir, "en", spec)

	cfg := config.Default()
	cfg.Merge.DefaultLanguage = "en"

	build, warnings := adjust(t, packsDir, &cfg)

	got := warnings.Warnings()
	if len(got) != 1 || got[0].Reason != report.ReasonTimingMissing {
		t.Fatalf("warnings: %v", got)
	}
	window, ok := build.Timing[linekey.MustParse("judy/q101/0003.vo_holocall")]
	if !ok || window.Duration < 1.2 {
		t.Fatalf("synthesized window: %+v ok=%v", window, ok)
	}
}
