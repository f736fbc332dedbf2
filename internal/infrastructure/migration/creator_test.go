package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/societyhub/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add flat index", "add_flat_index"},
		{"Add-Flat-Index", "add_flat_index"},
		{"ADD__FLAT__INDEX", "add_flat_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Numbering(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "master registry")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_master_registry.up.sql"), first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "Add society address")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, "add_society_address", second.Name)

	body, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "add_society_address (down)")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	source := fstest.MapFS{
		"000010_late.up.sql":    {},
		"000010_late.down.sql":  {},
		"000002_early.up.sql":   {},
		"000002_early.down.sql": {},
		"README.md":             {},
		"notes_x.up.sql":        {},
	}
	files, err := ListMigrations(source)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, uint(2), files[0].Version)
	assert.Equal(t, "late", files[1].Name)
	assert.Equal(t, "000010_late.down.sql", files[1].DownPath)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	files, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for i, f := range files {
		assert.Equal(t, uint(i+1), f.Version, "versions are contiguous")
		_, err := migrations.FS.Open(f.DownPath)
		assert.NoError(t, err, "missing %s", f.DownPath)
	}
}

func TestListMigrations_MissingDir(t *testing.T) {
	files, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, files)
}
