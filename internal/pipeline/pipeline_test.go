package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polyvox/internal/config"
	"polyvox/internal/logging"
	"polyvox/internal/pipeline"
	"polyvox/internal/report"
	"polyvox/internal/runstore"
	"polyvox/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.PacksDir = filepath.Join(root, "packs")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Merge.DefaultLanguage = "en"
	cfg.Merge.SubtitleLanguage = "en"
	if err := os.MkdirAll(cfg.Paths.PacksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func TestRunCleanMerge(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WritePack(t, cfg.Paths.PacksDir, "en", testsupport.BasicPack("en"))

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Options{}, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != report.StatusClean || rep.Lines != 3 {
		t.Fatalf("report: %+v", rep)
	}

	for _, name := range []string{"voices.json", "identity.json", "timing.json", "subtitles.json", "report.json"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	// Staging is gone after assembly.
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging not cleaned: %v", entries)
	}

	// The run landed in history.
	store, err := runstore.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	recent, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].RunID != rep.RunID || recent[0].Status != report.StatusClean {
		t.Fatalf("history: %+v", recent)
	}
}

func TestRunMultilingualWithWarnings(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WritePack(t, cfg.Paths.PacksDir, "en", testsupport.BasicPack("en"))

	jp := testsupport.BasicPack("jp")
	jp.Clips = jp.Clips[:2] // holocall line missing in jp
	jp.Subtitles["judy/q101/0002.vo"] = testsupport.SubtitleSpec{Text: "遅かったね。", Language: "jp"}
	testsupport.WritePack(t, cfg.Paths.PacksDir, "jp", jp)

	cfg.Speakers = map[string]string{"judy": "jp"}

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Options{}, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != report.StatusWarnings {
		t.Fatalf("status: %+v", rep)
	}

	var fallback bool
	for _, w := range rep.Warnings {
		if w.Reason == report.ReasonAudioFallback && w.Key == "judy/q101/0003.vo_holocall" {
			fallback = true
		}
	}
	if !fallback {
		t.Fatalf("expected audio fallback warning: %+v", rep.Warnings)
	}

	// The jp-voiced line carries the translation effect in the output.
	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "subtitles.json"))
	if err != nil {
		t.Fatal(err)
	}
	var subs map[string]struct {
		Text          string `json:"text"`
		EffectApplied bool   `json:"effect_applied"`
	}
	if err := json.Unmarshal(data, &subs); err != nil {
		t.Fatal(err)
	}
	judy := subs["judy/q101/0002.vo"]
	if !judy.EffectApplied || !strings.Contains(judy.Text, `l="jpn"`) {
		t.Fatalf("subtitle entry: %+v", judy)
	}
}

func TestRunAbortsOnMissingPacks(t *testing.T) {
	cfg := testConfig(t)

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Options{}, logging.NewNop())
	if err == nil {
		t.Fatal("expected precondition failure")
	}
	if rep == nil || rep.Status != report.StatusAborted {
		t.Fatalf("report: %+v", rep)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.OutputDir, "voices.json")); !os.IsNotExist(statErr) {
		t.Fatal("aborted run must not touch the output tables")
	}
}

func TestRunCleansStagingOnAssemblyFailure(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WritePack(t, cfg.Paths.PacksDir, "en", testsupport.BasicPack("en"))

	// A file where the backup directory belongs makes table promotion fail.
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.OutputDir, "backup_originals"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Options{}, logging.NewNop())
	if err == nil {
		t.Fatal("expected assembly failure")
	}
	if rep == nil || rep.Status != report.StatusAborted {
		t.Fatalf("report: %+v", rep)
	}

	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging left behind: %v", entries)
	}
}

func TestRunStripEffect(t *testing.T) {
	cfg := testConfig(t)
	en := testsupport.BasicPack("en")
	en.Subtitles["judy/q101/0002.vo"] = testsupport.SubtitleSpec{
		Text:          `<kiroshi l="jpn" o="遅かったね。" t="Took you long enough." b="" a=""/>`,
		Language:      "en",
		EffectApplied: true,
	}
	testsupport.WritePack(t, cfg.Paths.PacksDir, "en", en)

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Options{StripEffect: true}, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != report.StatusClean {
		t.Fatalf("report: %+v", rep)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "subtitles.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "<kiroshi") {
		t.Fatalf("markup survived strip: %s", data)
	}
}

func TestPlanDryInspection(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WritePack(t, cfg.Paths.PacksDir, "en", testsupport.BasicPack("en"))

	_, plan, warnings, err := pipeline.Plan(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}

	lines := pipeline.Describe(plan)
	if len(lines) != 3 || !strings.Contains(lines[0], "audio=en/default") {
		t.Fatalf("describe: %v", lines)
	}

	// Dry inspection leaves the workspace untouched.
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "voices.json")); !os.IsNotExist(err) {
		t.Fatal("plan must not write output")
	}
}
