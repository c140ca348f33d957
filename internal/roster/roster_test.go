package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/importer"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), config.FilePermUserRW))
}

func TestStore_ReplaceAndSnapshot(t *testing.T) {
	s := NewStore("")
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.People())

	var got []engine.PersonRecord
	s.OnChange(func(p []engine.PersonRecord) { got = p })

	in := []engine.PersonRecord{{Name: "Ada"}, {Name: "Grace"}}
	s.Replace(in)
	in[0].Name = "Mutated"

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "Ada", s.People()[0].Name, "Store keeps its own copy")
	assert.Len(t, got, 2)

	people := s.People()
	people[1].Name = "Changed"
	assert.Equal(t, "Grace", s.People()[1].Name)
}

func TestStore_Rows(t *testing.T) {
	s := NewStore("")
	s.Replace([]engine.PersonRecord{{Name: "Ada", Birthdate: "1990-06-15"}})

	rows := s.Rows(engine.CalendarDate{Year: 2024, Month: time.June, Day: 15})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsBirthdayToday)
	assert.Equal(t, 34, rows[0].Age.Years)
}

func TestStore_ImportPersistsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	s := NewStore(path)

	n, err := s.Import("upload.csv", strings.NewReader("NAME,BIRTHDATE\nAda,1990-01-01\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, s.Len())

	saved, err := importer.LoadPeopleFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.People(), saved)
}

func TestStore_ImportRejectedKeepsRoster(t *testing.T) {
	s := NewStore("")
	s.Replace([]engine.PersonRecord{{Name: "Ada"}})

	calls := 0
	s.OnChange(func([]engine.PersonRecord) { calls++ })

	_, err := s.Import("upload.csv", strings.NewReader("colour,size\nred,big\n"))
	require.ErrorIs(t, err, importer.ErrMalformed)

	_, err = s.Import("upload.pdf", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, importer.ErrUnsupportedFormat)

	assert.Equal(t, []engine.PersonRecord{{Name: "Ada"}}, s.People())
	assert.Zero(t, calls)
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.json")
	writeFile(t, path, `[{"name":"Ada"},{"name":"Grace"}]`)

	s := NewStore(path)
	require.NoError(t, s.Load())
	assert.Equal(t, 2, s.Len())

	assert.NoError(t, NewStore("").Load(), "No backing file is not an error")
	assert.Error(t, NewStore(filepath.Join(dir, "missing.json")).Load())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore("")
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace([]engine.PersonRecord{{Name: "Ada"}})
		}()
		go func() {
			defer wg.Done()
			_ = s.People()
			_ = s.Len()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	writeFile(t, path, `[{"name":"Ada"}]`)

	s := NewStore(path)
	require.NoError(t, s.Load())

	w := NewWatcher(s)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before the first write.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, path, `[{"name":"Ada"},{"name":"Grace"}]`)
	assert.Eventually(t, func() bool { return s.Len() == 2 }, 3*time.Second, 20*time.Millisecond)

	writeFile(t, path, `{broken`)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, s.Len(), "A broken file keeps the previous roster")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "people.json"))
	err := NewWatcher(s).Run(context.Background())
	assert.ErrorContains(t, err, config.ErrWatcher)
}
