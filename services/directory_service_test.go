package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"frtutracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directoryServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDirectoryResolveRemoteIsCached(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	srv := directoryServer(t, http.StatusOK, `["B","A","C"]`)

	dir := NewDirectoryService(store, srv.URL, time.Second, nil)
	assert.Equal(t, []string{"B", "A", "C"}, dir.Resolve(ctx))

	cached, found, err := store.Directory(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"B", "A", "C"}, cached)
}

func TestDirectoryResolveEmptyRemoteUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutDirectory(ctx, []string{"X", "Y"}))
	srv := directoryServer(t, http.StatusOK, `[]`)

	dir := NewDirectoryService(store, srv.URL, time.Second, nil)
	assert.Equal(t, []string{"X", "Y"}, dir.Resolve(ctx))
}

func TestDirectoryResolveFailureUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.PutDirectory(ctx, []string{"X"}))
	srv := directoryServer(t, http.StatusInternalServerError, `{"error":"down"}`)

	dir := NewDirectoryService(store, srv.URL, time.Second, nil)
	assert.Equal(t, []string{"X"}, dir.Resolve(ctx))
}

func TestDirectoryResolveFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	srv := directoryServer(t, http.StatusOK, `not json`)

	dir := NewDirectoryService(store, srv.URL, time.Second, nil)
	assert.Equal(t, models.InitialEmployees(), dir.Resolve(ctx))

	cached, found, err := store.Directory(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.InitialEmployees(), cached)
}

func TestDirectoryResolveWithoutEndpoint(t *testing.T) {
	store := newTestStore(t)
	dir := NewDirectoryService(store, "", 0, nil)
	assert.Equal(t, models.InitialEmployees(), dir.Resolve(context.Background()))
}

func TestDirectoryContains(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	dir := NewDirectoryService(store, "", 0, nil)

	assert.True(t, dir.Contains(ctx, "นายสมชาย ใจดี"))
	assert.True(t, dir.Contains(ctx, " นายสมชาย ใจดี "))
	assert.False(t, dir.Contains(ctx, "Nobody"))
	assert.False(t, dir.Contains(ctx, ""))

	require.NoError(t, store.PutDirectory(ctx, []string{"Nobody"}))
	assert.True(t, dir.Contains(ctx, "Nobody"))
}
