// Package snapshot records generation runs in a manifest and compares
// generated output across metadata versions.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/structforge/winmdgen/pkg/action/generate"
	"github.com/structforge/winmdgen/pkg/generator"
	"github.com/structforge/winmdgen/pkg/manifest"
)

// Generate runs a generation pass and records its output in the manifest
// under the given metadata version.
func Generate(opts *generator.Options, manifestPath, version string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if err := generate.Generate(opts); err != nil {
		return "", err
	}

	outFile := filepath.Clean(filepath.Join(opts.OutDir, opts.OutFile))
	m.Record(manifest.Snapshot{
		Version:    version,
		Namespaces: opts.Namespaces,
		File:       outFile,
	})

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return outFile, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and
// previous snapshot files, and returns a textual diff of their contents.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return cmp.Diff(string(previous), string(current)), nil
}
