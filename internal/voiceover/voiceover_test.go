package voiceover_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polyvox/internal/assignment"
	"polyvox/internal/catalog"
	"polyvox/internal/config"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/report"
	"polyvox/internal/testsupport"
	"polyvox/internal/voiceover"
)

func setup(t *testing.T) (*catalog.Catalog, *assignment.Plan, *output.Build) {
	t.Helper()
	packsDir := t.TempDir()
	testsupport.WritePack(t, packsDir, "en", testsupport.BasicPack("en"))
	cat, err := catalog.Load(packsDir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Merge.DefaultLanguage = "en"
	plan, _, err := assignment.Resolve(cat, &cfg, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	return cat, plan, output.New(t.TempDir())
}

func TestMergeCopiesEveryLine(t *testing.T) {
	cat, plan, build := setup(t)

	var warnings report.Collector
	if err := voiceover.Merge(context.Background(), cat, plan, build, &warnings, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	if got := warnings.Warnings(); len(got) != 0 {
		t.Fatalf("unexpected warnings: %v", got)
	}
	if len(build.Audio) != 3 {
		t.Fatalf("expected 3 staged clips, got %d", len(build.Audio))
	}

	key := linekey.MustParse("judy/q101/0002.vo")
	merged := build.Audio[key]
	if merged.Language != "en" || merged.SHA256 == "" {
		t.Fatalf("merged clip: %+v", merged)
	}
	data, err := os.ReadFile(build.Path(merged.File))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "en:judy/q101/0002.vo" {
		t.Fatalf("payload content: %q", data)
	}
}

func TestMergeSkipsVanishedPayload(t *testing.T) {
	cat, plan, build := setup(t)

	// Simulate a payload deleted between cataloging and merging.
	pack, _ := cat.Pack("en")
	key := linekey.MustParse("v/q101/0001.vo")
	clip, _ := pack.Clip(key, "default")
	if err := os.Remove(pack.ClipPath(clip)); err != nil {
		t.Fatal(err)
	}

	var warnings report.Collector
	if err := voiceover.Merge(context.Background(), cat, plan, build, &warnings, logging.NewNop()); err != nil {
		t.Fatal(err)
	}

	got := warnings.Warnings()
	if len(got) != 1 || got[0].Reason != report.ReasonClipMissing || got[0].Key != key.String() {
		t.Fatalf("warnings: %v", got)
	}
	if _, staged := build.Audio[key]; staged {
		t.Fatal("vanished line should not be staged")
	}
	if len(build.Audio) != 2 {
		t.Fatalf("other lines should still merge, got %d", len(build.Audio))
	}
}

func TestMergeHonorsCancellation(t *testing.T) {
	cat, plan, build := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var warnings report.Collector
	if err := voiceover.Merge(ctx, cat, plan, build, &warnings, logging.NewNop()); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFileNameStable(t *testing.T) {
	key := linekey.MustParse("judy/q101/0003.vo_holocall")
	got := voiceover.FileName(key)
	if !strings.HasPrefix(got, "judy_q101_0003_vo_holocall_") || !strings.HasSuffix(got, ".wem") {
		t.Fatalf("file name: %q", got)
	}
	if got != voiceover.FileName(key) {
		t.Fatal("file name must be stable across calls")
	}
	if got != filepath.Base(got) {
		t.Fatalf("file name must be a bare name: %q", got)
	}
}

func TestFileNameDistinctPerKey(t *testing.T) {
	// Both keys sanitize to the same token; the staged names must not collide.
	a := voiceover.FileName(linekey.MustParse("a/b/c.d.vo"))
	b := voiceover.FileName(linekey.MustParse("a/b/c_d.vo"))
	if a == b {
		t.Fatalf("distinct keys share staged name %q", a)
	}
}
