package assembler_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"polyvox/internal/assembler"
	"polyvox/internal/catalog"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/services"
)

func completeBuild(t *testing.T) *output.Build {
	t.Helper()
	build := output.New(t.TempDir())

	key := linekey.MustParse("judy/q101/0002.vo")
	if err := os.MkdirAll(build.AudioDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(build.LipsyncDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(build.Path("audio/judy.wem"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(build.Path("lipsync/judy.anim"), []byte("anim"), 0o644); err != nil {
		t.Fatal(err)
	}

	build.Audio[key] = output.MergedClip{Key: key, File: "audio/judy.wem", Language: "jp", Variant: "default", Duration: 2.0, SHA256: "abc"}
	build.Lipsync[key] = output.LipAnimation{File: "lipsync/judy.anim"}
	build.Identity[key] = catalog.IdentityEntry{Character: "judy", Gender: catalog.GenderFemale}
	build.Timing[key] = catalog.TimingRecord{Start: 2.0, Duration: 2.0}
	build.SceneBounds["q101"] = 30.0
	build.Subtitles[key] = catalog.SubtitleEntry{Text: "Took you long enough.", Language: "en"}
	return build
}

func TestAssemblePromotesBuild(t *testing.T) {
	build := completeBuild(t)
	outputDir := t.TempDir()

	if err := assembler.Assemble(context.Background(), build, outputDir, logging.NewNop()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"voices.json", "identity.json", "timing.json", "subtitles.json"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Fatalf("missing table %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "audio", "judy.wem")); err != nil {
		t.Fatalf("audio payload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "lipsync", "judy.anim")); err != nil {
		t.Fatalf("lip animation: %v", err)
	}
	if _, err := os.Stat(build.StagingDir); !os.IsNotExist(err) {
		t.Fatal("staging not removed")
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "voices.json"))
	if err != nil {
		t.Fatal(err)
	}
	var clips []output.MergedClip
	if err := json.Unmarshal(data, &clips); err != nil {
		t.Fatal(err)
	}
	if len(clips) != 1 || clips[0].Language != "jp" {
		t.Fatalf("voices table: %+v", clips)
	}
}

func TestAssembleBacksUpPreviousTables(t *testing.T) {
	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outputDir, "voices.json"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	build := completeBuild(t)
	if err := assembler.Assemble(context.Background(), build, outputDir, logging.NewNop()); err != nil {
		t.Fatal(err)
	}

	backed, err := os.ReadFile(filepath.Join(outputDir, "backup_originals", "voices.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(backed) != "old" {
		t.Fatalf("backup content: %q", backed)
	}
}

func TestCrossCheckIncompleteMerge(t *testing.T) {
	build := completeBuild(t)
	delete(build.Timing, linekey.MustParse("judy/q101/0002.vo"))

	err := assembler.CrossCheck(build)
	if !errors.Is(err, services.ErrAssembly) {
		t.Fatalf("expected assembly error, got %v", err)
	}
	var asmErr *assembler.Error
	if !errors.As(err, &asmErr) || asmErr.Kind != assembler.IncompleteMerge || asmErr.Table != "timing" {
		t.Fatalf("error detail: %v", err)
	}
}

func TestCrossCheckSkippedLinesAllowed(t *testing.T) {
	build := completeBuild(t)
	// A line skipped by the voiceover stage may still appear in other tables.
	other := linekey.MustParse("v/q101/0001.vo")
	build.Identity[other] = catalog.IdentityEntry{Character: "v", Gender: catalog.GenderFemale}

	if err := assembler.CrossCheck(build); err != nil {
		t.Fatal(err)
	}
}

func TestAssembleDoesNotTouchOutputOnFailedCheck(t *testing.T) {
	build := completeBuild(t)
	delete(build.Subtitles, linekey.MustParse("judy/q101/0002.vo"))
	outputDir := t.TempDir()

	if err := assembler.Assemble(context.Background(), build, outputDir, logging.NewNop()); err == nil {
		t.Fatal("expected cross-check failure")
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("output dir mutated: %v", entries)
	}
	if _, err := os.Stat(build.StagingDir); err != nil {
		t.Fatal("staging must survive a failed assembly")
	}
}
