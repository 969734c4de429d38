// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/services"
)

// MockCatalog is a test double for [services.CatalogBrowser]
type MockCatalog struct {
	Descriptors []models.Descriptor
	Err         error
}

func (m *MockCatalog) ExtractTracks(ctx context.Context) ([]models.Descriptor, error) {
	return m.Descriptors, m.Err
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query, game, artist string) ([]models.Descriptor, error) {
	return m.Descriptors, m.Err
}

func (m *MockCatalog) Stats(ctx context.Context) (*services.CatalogStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.CatalogStats{TotalTracks: len(m.Descriptors)}, nil
}

func (m *MockCatalog) Name() string { return "mock catalog" }

// MockSearch is a test double for [services.SearchService]
type MockSearch struct {
	Candidates []models.Candidate
	Err        error
}

func (m *MockSearch) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	return m.Candidates, m.Err
}
func (m *MockSearch) Name() string { return "mock search" }

// MockPlaylists is a test double for [services.PlaylistService]
type MockPlaylists struct {
	Playlists []models.Playlist
	Created   []models.Playlist
	Added     map[string][]string
	Deleted   []string
	Err       error
}

func (m *MockPlaylists) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	playlist := models.Playlist{ID: "mock_playlist", Name: name, Description: description, Public: public}
	m.Created = append(m.Created, playlist)
	return &playlist, nil
}

func (m *MockPlaylists) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Added == nil {
		m.Added = map[string][]string{}
	}
	m.Added[playlistID] = append(m.Added[playlistID], uris...)
	return nil
}

func (m *MockPlaylists) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, m.Err
}

func (m *MockPlaylists) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, playlistID)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
