package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsDefaults(t *testing.T) {
	s := Open(t.TempDir())

	raw, err := s.Get(KeyProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":0,"day":0,"isSet":false,"dailyRate":0.05}`, string(raw))

	raw, err = s.Get(KeyHistory)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = s.Get(KeyTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestUnknownKey(t *testing.T) {
	s := Open(t.TempDir())

	_, err := s.Get("passwords")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorIs(t, s.Put("passwords", []byte(`{}`)), ErrUnknownKey)
}

func TestPutThenGet(t *testing.T) {
	dir := t.TempDir()
	s := Open(filepath.Join(dir, "nested"))

	require.NoError(t, s.Put(KeyProgress, []byte(`{"amount":150,"day":12,"isSet":true,"dailyRate":0.05}`)))

	raw, err := s.Get(KeyProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":150,"day":12,"isSet":true,"dailyRate":0.05}`, string(raw))

	onDisk, err := os.ReadFile(s.Path(KeyProgress))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(onDisk), "\n    \"amount\": 150"), "file is indented: %s", onDisk)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	s := Open(t.TempDir())
	assert.ErrorIs(t, s.Put(KeyHistory, []byte(`[{`)), ErrInvalidJSON)

	_, err := os.Stat(s.Path(KeyHistory))
	assert.True(t, os.IsNotExist(err))
}

func TestCorruptFileFallsBackToDefault(t *testing.T) {
	s := Open(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path(KeyHistory), []byte("not json"), 0o644))

	raw, err := s.Get(KeyHistory)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	require.NoError(t, os.WriteFile(s.Path(KeyTheme), []byte("   \n"), 0o644))
	raw, err = s.Get(KeyTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestLoadAndSave(t *testing.T) {
	type progress struct {
		Amount float64 `json:"amount"`
		Day    int     `json:"day"`
		IsSet  bool    `json:"isSet"`
	}
	s := Open(t.TempDir())

	p, err := Load[progress](s, KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, progress{}, p)

	require.NoError(t, Save(s, KeyProgress, progress{Amount: 10, Day: 2, IsSet: true}))
	p, err = Load[progress](s, KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, progress{Amount: 10, Day: 2, IsSet: true}, p)

	// A document of the wrong shape decodes as the default.
	require.NoError(t, s.Put(KeyProgress, []byte(`[1,2,3]`)))
	p, err = Load[progress](s, KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, progress{}, p)
}

func TestOnChange(t *testing.T) {
	s := Open(t.TempDir())
	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })

	require.NoError(t, s.Put(KeyTheme, []byte(`{ "primary": "#fff" }`)))
	require.Error(t, s.Put(KeyTheme, []byte(`{`)))

	require.Len(t, got, 1)
	assert.Equal(t, KeyTheme, got[0].Key)
	assert.Equal(t, json.RawMessage(`{"primary":"#fff"}`), got[0].Value)
}

func TestQuery(t *testing.T) {
	s := Open(t.TempDir())
	require.NoError(t, s.Put(KeyHistory, []byte(`[{"id":1,"title":"first"},{"id":2,"title":"second"}]`)))

	v, err := s.Query(KeyHistory, "$[1].title")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	v, err = s.Query(KeyProgress, "$.dailyRate")
	require.NoError(t, err)
	assert.Equal(t, 0.05, v)

	_, err = s.Query(KeyHistory, "$[")
	assert.Error(t, err)

	assert.Equal(t, []string{KeyHistory, KeyProgress, KeyTheme}, Keys())
}
