package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"frtutracker/logger"
	"frtutracker/models"
)

// DirectoryCache is the part of the record store the directory needs.
type DirectoryCache interface {
	Directory(ctx context.Context) ([]string, bool, error)
	PutDirectory(ctx context.Context, names []string) error
}

// DirectoryService resolves the technician names, preferring the remote
// directory endpoint and falling back to the cache, then the seed list.
type DirectoryService struct {
	cache    DirectoryCache
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewDirectoryService creates a DirectoryService. An empty endpoint skips the
// remote call.
func NewDirectoryService(cache DirectoryCache, endpoint string, timeout time.Duration, client *http.Client) *DirectoryService {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DirectoryService{
		cache:    cache,
		endpoint: endpoint,
		timeout:  timeout,
		client:   client,
	}
}

// Resolve always returns a usable list. Remote order is preserved.
func (d *DirectoryService) Resolve(ctx context.Context) []string {
	if d.endpoint != "" {
		names, err := d.fetch(ctx)
		if err == nil && len(names) > 0 {
			if err := d.cache.PutDirectory(ctx, names); err != nil {
				logger.Error("Failed to cache directory: %v", err)
			}
			return names
		}
		if err != nil {
			logger.Warn("Failed to fetch employees from API, using cached/seed data: %v", err)
		}
	}

	cached, found, err := d.cache.Directory(ctx)
	if err != nil {
		logger.Error("Failed to read cached directory: %v", err)
		return models.InitialEmployees()
	}
	if found && len(cached) > 0 {
		return cached
	}

	seed := models.InitialEmployees()
	if err := d.cache.PutDirectory(ctx, seed); err != nil {
		logger.Error("Failed to cache seed directory: %v", err)
	}
	return seed
}

// Contains reports whether name is in the directory. It consults the cache
// first and resolves only when nothing has been cached yet.
func (d *DirectoryService) Contains(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	names, found, err := d.cache.Directory(ctx)
	if err != nil || !found || len(names) == 0 {
		names = d.Resolve(ctx)
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (d *DirectoryService) fetch(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint, nil)
	if err != nil {
		return nil, &TransientNetworkError{Op: "GET", URL: d.endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &TransientNetworkError{Op: "GET", URL: d.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &TransientNetworkError{Op: "GET", URL: d.endpoint, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, &TransientNetworkError{Op: "GET", URL: d.endpoint, Err: fmt.Errorf("decode directory: %w", err)}
	}
	return names, nil
}
