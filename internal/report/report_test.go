package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/maintenance-orders/internal/config"
	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
)

var fixedNow = func() time.Time { return time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC) }

func TestGenerateContainsFigures(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil, fixedNow)

	file, err := g.Generate(context.Background(), Productivity{
		TechnicianName:  "Jane Doe",
		CompletedOrders: 5,
		TotalHours:      12.5,
	})
	require.NoError(t, err)
	defer file.Close()

	body, err := os.ReadFile(file.Path)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Contains(t, string(body), "Productivity Report")
	assert.Contains(t, string(body), "Jane Doe")
	assert.Contains(t, string(body), "Completed Orders: 5")
	assert.Contains(t, string(body), "12.5")
	assert.Equal(t, int64(len(body)), file.Size)
}

func TestGenerateKeepsNamesOutsideLatin1(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil, fixedNow)

	name := "Łukasz Wójcik Ωμέγα"
	file, err := g.Generate(context.Background(), Productivity{TechnicianName: name, CompletedOrders: 2, TotalHours: 3})
	require.NoError(t, err)
	defer file.Close()

	body, err := os.ReadFile(file.Path)
	require.NoError(t, err)

	assert.Contains(t, string(body), utf16be("Technician: "+name))
	assert.Contains(t, string(body), "Completed Orders: 2")
	assert.Contains(t, string(body), "/FontFile2")
}

func TestLatin1NamesUseCoreFont(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil, fixedNow)

	file, err := g.Generate(context.Background(), Productivity{TechnicianName: "José Müller"})
	require.NoError(t, err)
	defer file.Close()

	body, err := os.ReadFile(file.Path)
	require.NoError(t, err)

	assert.Contains(t, string(body), "Technician: Jos\xe9 M\xfcller")
	assert.NotContains(t, string(body), "/FontFile2")
}

func utf16be(s string) string {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return string(b)
}

func TestGenerateUsesUniqueFilesAndCloseRemoves(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, nil, fixedNow)

	const n = 8
	files := make([]*File, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := g.Generate(context.Background(), Productivity{TechnicianName: "T", CompletedOrders: i})
			assert.NoError(t, err)
			files[i] = f
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, f := range files {
		require.NotNil(t, f)
		assert.False(t, seen[f.Path])
		seen[f.Path] = true
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, n)

	for _, f := range files {
		require.NoError(t, f.Close())
		require.NoError(t, f.Close())
	}
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, nil, fixedNow)

	for _, p := range []Productivity{
		{TechnicianName: " ", CompletedOrders: 1, TotalHours: 1},
		{TechnicianName: "A", CompletedOrders: -1},
		{TechnicianName: "A", TotalHours: -0.5},
		{TechnicianName: "王伟", CompletedOrders: 1, TotalHours: 1},
		{TechnicianName: "Ana 🔧", CompletedOrders: 1, TotalHours: 1},
	} {
		_, err := g.Generate(context.Background(), p)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation), "%+v", p)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type memArchive struct {
	key  string
	body []byte
	err  error
}

func (m *memArchive) Store(_ context.Context, key string, body io.Reader, _ int64) error {
	m.key = key
	m.body, _ = io.ReadAll(body)
	return m.err
}

func TestGenerateArchivesCopy(t *testing.T) {
	arch := &memArchive{}
	g := NewGenerator(t.TempDir(), arch, fixedNow)

	file, err := g.Generate(context.Background(), Productivity{TechnicianName: "Jane Doe", CompletedOrders: 1, TotalHours: 2})
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "reports/2026/04/"+file.ID+".pdf", arch.key)
	assert.Contains(t, string(arch.body), "Jane Doe")
}

func TestArchiveFailureDoesNotFailGenerate(t *testing.T) {
	arch := &memArchive{err: errors.New("bucket gone")}
	g := NewGenerator(t.TempDir(), arch, fixedNow)

	file, err := g.Generate(context.Background(), Productivity{TechnicianName: "Jane Doe"})
	require.NoError(t, err)
	assert.NoError(t, file.Close())
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "12.5", FormatHours(12.5))
	assert.Equal(t, "3", FormatHours(3))
	assert.Equal(t, "0", FormatHours(0))
}

func TestNewS3ArchiveDisabledWithoutBucket(t *testing.T) {
	assert.Nil(t, NewS3Archive(configWithBucket("")))
	assert.NotNil(t, NewS3Archive(configWithBucket("reports")))
}

func configWithBucket(bucket string) config.ReportConfig {
	return config.ReportConfig{Bucket: bucket, Region: "us-east-1", Endpoint: "http://localhost:9000"}
}
