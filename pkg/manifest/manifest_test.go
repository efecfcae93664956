package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Empty(t, m.CurrentVersion)
	require.Empty(t, m.Snapshots)
}

func TestRecordVersionPointers(t *testing.T) {
	var m Manifest

	m.Record(Snapshot{Version: "10.0.22621", File: "winapi/types_gen.go"})
	require.Equal(t, "10.0.22621", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)

	m.Record(Snapshot{Version: "10.0.26100", File: "winapi/types_gen.go"})
	require.Equal(t, "10.0.26100", m.CurrentVersion)
	require.Equal(t, "10.0.22621", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
}

func TestRecordReplacesSameVersion(t *testing.T) {
	var m Manifest

	m.Record(Snapshot{Version: "10.0.26100", File: "a.go"})
	m.Record(Snapshot{Version: "10.0.26100", File: "b.go", Namespaces: []string{"Windows.Win32.Foundation"}})

	require.Equal(t, "10.0.26100", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)
	require.Len(t, m.Snapshots, 1)
	require.Equal(t, "b.go", m.Snapshots[0].File)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "manifest.yaml")

	var m Manifest
	m.Record(Snapshot{Version: "10.0.22621", File: "winapi/types_gen.go", Namespaces: []string{"Windows.Win32.Foundation"}})
	m.Record(Snapshot{Version: "10.0.26100", File: "winapi/types_gen.go"})
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, &m, loaded)
}

func TestSnapshotFile(t *testing.T) {
	var m Manifest
	m.Record(Snapshot{Version: "10.0.26100", File: "winapi/types_gen.go"})

	require.Equal(t, "winapi/types_gen.go", m.SnapshotFile("10.0.26100"))
	require.Empty(t, m.SnapshotFile("10.0.22621"))
}
