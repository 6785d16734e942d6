package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/menulens/backend/internal/domain"
	"github.com/menulens/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVendor serves a token endpoint and a minimal meal-planning API
func fakeVendor(t *testing.T) (tokenURL, baseURL string) {
	t.Helper()

	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token": "cli-token"}`))
	}))
	t.Cleanup(tokens.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/mealPeriods":
			_, _ = w.Write([]byte(`[{"id": 2, "name": "Lunch"}, {"id": 1, "name": "Breakfast"}]`))
		default:
			_, _ = w.Write([]byte(`{"result": [{"strMenuForDate": "2026-10-19", "menuRecipiesData": [
				{"componentName": "Oatmeal", "category": "Grill", "calories": 150, "allergens": "Oats, Milk"}
			]}]}`))
		}
	}))
	t.Cleanup(api.Close)

	return tokens.URL, api.URL
}

func writeConfig(t *testing.T, tokenURL, baseURL string) string {
	t.Helper()
	return writeConfigWithCache(t, tokenURL, baseURL, "  type: memory\n")
}

func writeConfigWithCache(t *testing.T, tokenURL, baseURL, cacheSection string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "vendor:\n" +
		"  base_url: " + baseURL + "\n" +
		"  token_url: " + tokenURL + "\n" +
		"  account_id: acct\n" +
		"cache:\n" +
		cacheSection +
		"locations:\n" +
		"  - id: 7\n" +
		"    name: North Hall\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "menuctl v"+Version)
}

func TestLoadCommand_Table(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	out, err := run(t, "load", "--config", cfgPath, "--date", "2026/10/19")
	require.NoError(t, err)

	assert.Contains(t, out, "LOCATION")
	assert.Contains(t, out, "North Hall")
	assert.Contains(t, out, "Oatmeal")
	assert.Contains(t, out, "Grill")
	assert.Contains(t, out, "Oats, Milk")
}

func TestLoadCommand_JSON(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	out, err := run(t, "load", "--config", cfgPath, "--date", "2026-10-19", "-o", "json")
	require.NoError(t, err)

	var rows []menuRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	// Both periods list the same month payload
	for _, row := range rows {
		assert.Equal(t, "North Hall", row.Location)
		assert.Equal(t, "Oatmeal", row.Item)
		require.NotNil(t, row.Calories)
		assert.Equal(t, 150, *row.Calories)
	}
}

func TestLoadCommand_InvalidDate(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	for _, date := range []string{"tomorrow", "2026-10-19garbage"} {
		_, err := run(t, "load", "--config", cfgPath, "--date", date)
		require.Error(t, err, date)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, date)
	}
}

func TestLoadCommand_UnknownFormat(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	_, err := run(t, "load", "--config", cfgPath, "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestLoadCommand_MissingConfig(t *testing.T) {
	_, err := run(t, "load", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPeriodsCommand(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	out, err := run(t, "periods", "--config", cfgPath, "--location", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Breakfast")
	assert.Contains(t, out, "Lunch")
	assert.Less(t, bytes.Index([]byte(out), []byte("Breakfast")), bytes.Index([]byte(out), []byte("Lunch")))

	out, err = run(t, "periods", "--config", cfgPath, "--location", "7", "-o", "json")
	require.NoError(t, err)
	var periods []domain.MealPeriod
	require.NoError(t, json.Unmarshal([]byte(out), &periods))
	assert.Len(t, periods, 2)
}

func TestPeriodsCommand_RequiresLocation(t *testing.T) {
	tokenURL, baseURL := fakeVendor(t)
	cfgPath := writeConfig(t, tokenURL, baseURL)

	_, err := run(t, "periods", "--config", cfgPath)
	require.Error(t, err)
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigWithCache(t, "http://127.0.0.1:1", "http://127.0.0.1:1",
		"  type: disk\n  dir: "+dir+"\n")

	store := cache.NewDiskStore(dir)
	store.Save(cache.PeriodsKey(7), []byte("[]"))
	store.Save(cache.PeriodsKey(8), []byte("[]"))

	out, err := run(t, "cache", "clear", "--config", cfgPath, cache.PeriodsKey(7))
	require.NoError(t, err)
	assert.Contains(t, out, "deleted periods/7")
	assert.NoFileExists(t, filepath.Join(dir, "periods", "7.json"))
	assert.FileExists(t, filepath.Join(dir, "periods", "8.json"))

	out, err = run(t, "cache", "clear", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "cache cleared")
	assert.NoDirExists(t, dir)
}

func TestMenuRows_EmptyPeriod(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)
	locations := []domain.Location{{ID: 1, Name: "A"}}
	periods := map[int][]domain.MealPeriod{1: {{ID: 3, Name: "Dinner"}}}

	rows := menuRows(locations, periods, map[domain.MenuKey][]domain.MealItem{}, day)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dinner", rows[0].Period)
	assert.Empty(t, rows[0].Item)
}
