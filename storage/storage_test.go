package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s LocalStorage) {
	t.Helper()

	_, ok, err := s.GetItem(KeyCartItems)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(KeyCartItems, `[{"product":"p1","qty":2}]`))
	v, ok, err := s.GetItem(KeyCartItems)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"product":"p1","qty":2}]`, v)

	require.NoError(t, s.SetItem(KeyCartItems, `[]`))
	v, _, err = s.GetItem(KeyCartItems)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.RemoveItem(KeyCartItems))
	_, ok, err = s.GetItem(KeyCartItems)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveItem("never-set"))

	type address struct {
		City string `json:"city"`
	}
	require.NoError(t, SetJSON(s, KeyShippingAddress, address{City: "Lagos"}))
	var got address
	ok, err = GetJSON(s, KeyShippingAddress, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Lagos", got.City)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client", "storage.json")
	exerciseStorage(t, NewFile(path))
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, NewFile(path).SetItem(KeyUserInfo, `{"name":"John"}`))

	v, ok, err := NewFile(path).GetItem(KeyUserInfo)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"John"}`, v)
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path).GetItem(KeyUserInfo)
	assert.Error(t, err)
}

func TestGetJSONBadValue(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, s.SetItem(KeyCartItems, "not json"))

	var v []string
	ok, err := GetJSON(s, KeyCartItems, &v)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedis(client, "shopctl:john")
	exerciseStorage(t, s)

	require.NoError(t, s.SetItem(KeyUserInfo, "x"))
	assert.Equal(t, "x", mr.HGet("shopctl:john", KeyUserInfo))
}
