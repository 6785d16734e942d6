package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/menulens/backend/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	key := PeriodsKey(12)
	payload := []byte(`[{"id":1,"name":"Breakfast"}]`)

	store.Save(key, payload)

	got, ok := store.Load(key, time.Hour)
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestStore_Overwrite(t *testing.T) {
	store := NewMemoryStore()
	key := PeriodsKey(1)

	store.Save(key, []byte("first"))
	store.Save(key, []byte("second"))

	got, ok := store.Load(key, time.Hour)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestStore_Miss(t *testing.T) {
	store := NewMemoryStore()

	got, ok := store.Load("periods/404", time.Hour)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_GetReportsCacheMiss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("periods/404", time.Hour)
	assert.True(t, errors.Is(err, domain.ErrCacheMiss))

	store.Save("periods/1", []byte("data"))
	_, err = store.Get("periods/1", 0)
	assert.True(t, errors.Is(err, domain.ErrCacheMiss))

	data, err := store.Get("periods/1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)
}

func TestStore_ZeroMaxAgeMisses(t *testing.T) {
	store := NewMemoryStore()
	store.Save("periods/1", []byte("data"))

	_, ok := store.Load("periods/1", 0)
	assert.False(t, ok)
}

func TestStore_StaleEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/cache")
	key := ItemsKey(1, 2, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	ttl := 10 * time.Second

	store.Save(key, []byte("data"))

	_, ok := store.Load(key, ttl)
	require.True(t, ok)

	old := time.Now().Add(-(ttl + time.Second))
	require.NoError(t, fs.Chtimes(store.path(key), old, old))

	_, ok = store.Load(key, ttl)
	assert.False(t, ok)
}

func TestStore_InjectedClock(t *testing.T) {
	store := NewMemoryStore()
	store.Save("periods/1", []byte("data"))

	store.now = func() time.Time { return time.Now().Add(PeriodsTTL + time.Minute) }

	_, ok := store.Load("periods/1", PeriodsTTL)
	assert.False(t, ok)
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	store := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cache")

	assert.NotPanics(t, func() {
		store.Save("periods/1", []byte("data"))
	})

	_, ok := store.Load("periods/1", time.Hour)
	assert.False(t, ok)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/cache")

	store.Save("periods/1", []byte("data"))

	entries, err := afero.ReadDir(fs, "/cache/periods")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1.json", entries[0].Name())
}

func TestStore_ConcurrentReadersSeeWholeEntries(t *testing.T) {
	store := NewMemoryStore()
	key := PeriodsKey(5)
	a := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	b := []byte("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	store.Save(key, a)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.Save(key, b)
				return
			}
			if got, ok := store.Load(key, time.Hour); ok {
				assert.Contains(t, [][]byte{a, b}, got)
			}
		}(i)
	}
	wg.Wait()
}

func TestStore_DeleteAndClear(t *testing.T) {
	store := NewMemoryStore()
	store.Save("periods/1", []byte("one"))
	store.Save("periods/2", []byte("two"))

	require.NoError(t, store.Delete("periods/1"))
	require.NoError(t, store.Delete("periods/1"))
	_, ok := store.Load("periods/1", time.Hour)
	assert.False(t, ok)

	require.NoError(t, store.Clear())
	_, ok = store.Load("periods/2", time.Hour)
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	day := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	otherDay := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "periods/7", PeriodsKey(7))
	assert.Equal(t, "items/7/3/2026-03", ItemsKey(7, 3, day))
	assert.Equal(t, ItemsKey(7, 3, day), ItemsKey(7, 3, otherDay), "days of one month share an entry")
}

func TestStore_PathStaysUnderDir(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/cache")
	assert.Equal(t, "/cache/periods/1.json", store.path("periods/1"))
	assert.Equal(t, "/cache/_/etc/passwd.json", store.path("../etc/passwd"))
}
