// Package assembler is the barrier after the merge stages: it cross-checks
// that every merged line is complete across all output tables, then promotes
// the staged build into the output pack. Previous table files are moved into a
// backup directory, never overwritten in place.
package assembler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"polyvox/internal/fileutil"
	"polyvox/internal/linekey"
	"polyvox/internal/logging"
	"polyvox/internal/output"
	"polyvox/internal/services"
)

// ErrorKind classifies assembly failures.
type ErrorKind string

const (
	IncompleteMerge ErrorKind = "incomplete_merge"
)

// Error reports a failed cross-check.
type Error struct {
	Kind  ErrorKind
	Key   string
	Table string
}

func (e *Error) Error() string {
	return fmt.Sprintf("assembly %s: key %s missing from %s", e.Kind, e.Key, e.Table)
}

// backupDirName is where previous output tables are moved during promotion.
const backupDirName = "backup_originals"

// Assemble verifies the build and promotes it into outputDir. The staging
// directory is removed on success.
func Assemble(ctx context.Context, build *output.Build, outputDir string, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "assembler")

	if err := CrossCheck(build); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrAssembly, "assembler", "prepare output", "", err)
	}

	if err := writeTables(build, outputDir); err != nil {
		return err
	}
	for _, sub := range []string{"audio", "lipsync"} {
		if err := promoteDir(filepath.Join(build.StagingDir, sub), filepath.Join(outputDir, sub)); err != nil {
			return services.Wrap(services.ErrAssembly, "assembler", "promote "+sub, "", err)
		}
	}

	if err := os.RemoveAll(build.StagingDir); err != nil {
		return services.Wrap(services.ErrAssembly, "assembler", "remove staging", "", err)
	}

	log.Info("output pack assembled",
		logging.Int("lines", len(build.Audio)),
		logging.String("dir", outputDir),
	)
	return nil
}

// CrossCheck verifies that every merged line has exactly one entry in every
// output table. Lines skipped by earlier stages are not merged lines; lines
// merged by the voiceover stage but missing anywhere else are fatal.
func CrossCheck(build *output.Build) error {
	keys := make([]linekey.Key, 0, len(build.Audio))
	for key := range build.Audio {
		keys = append(keys, key)
	}
	linekey.SortKeys(keys)

	tables := []struct {
		name string
		has  func(linekey.Key) bool
	}{
		{"lipsync", func(k linekey.Key) bool { _, ok := build.Lipsync[k]; return ok }},
		{"identity", func(k linekey.Key) bool { _, ok := build.Identity[k]; return ok }},
		{"timing", func(k linekey.Key) bool { _, ok := build.Timing[k]; return ok }},
		{"subtitles", func(k linekey.Key) bool { _, ok := build.Subtitles[k]; return ok }},
	}

	for _, key := range keys {
		for _, table := range tables {
			if !table.has(key) {
				return services.Wrap(services.ErrAssembly, "assembler", "cross-check", "",
					&Error{Kind: IncompleteMerge, Key: key.String(), Table: table.name})
			}
		}
	}
	return nil
}

func writeTables(build *output.Build, outputDir string) error {
	clips := make([]output.MergedClip, 0, len(build.Audio))
	for _, clip := range build.Audio {
		clips = append(clips, clip)
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].Key.String() < clips[j].Key.String() })

	tables := []struct {
		name  string
		value any
	}{
		{"voices.json", clips},
		{"identity.json", build.Identity},
		{"timing.json", map[string]any{"scenes": build.SceneBounds, "entries": build.Timing}},
		{"subtitles.json", build.Subtitles},
	}

	backupDir := filepath.Join(outputDir, backupDirName)
	for _, table := range tables {
		data, err := json.MarshalIndent(table.value, "", "  ")
		if err != nil {
			return services.Wrap(services.ErrAssembly, "assembler", "encode "+table.name, "", err)
		}
		path := filepath.Join(outputDir, table.name)
		tmp := path + ".tmp.new"
		if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
			return services.Wrap(services.ErrAssembly, "assembler", "stage "+table.name, "", err)
		}
		if err := fileutil.ReplaceWithBackup(path, tmp, backupDir); err != nil {
			return services.Wrap(services.ErrAssembly, "assembler", "promote "+table.name, "", err)
		}
	}
	return nil
}

// promoteDir replaces dst with src. Rename is preferred; a cross-device move
// falls back to a file-by-file copy.
func promoteDir(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyTree(src, dst)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return fileutil.CopyFile(path, target)
	})
}
