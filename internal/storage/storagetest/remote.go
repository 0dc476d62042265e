// Package storagetest provides an in-memory storage.Remote for tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/nextslot/media-service/internal/storage"
)

var _ storage.Remote = (*Remote)(nil)

// Remote is an in-memory storage.Remote that records uploads and counts calls.
// Set the Fail* fields to make the matching operation return that error.
type Remote struct {
	mu      sync.Mutex
	assets  map[string][]byte
	uploads []storage.UploadRequest
	calls   int

	FailUpload  error
	FailDestroy error
	FailAsset   error
	FailList    error
	FailURL     error
}

// NewRemote returns an empty Remote.
func NewRemote() *Remote {
	return &Remote{assets: map[string][]byte{}}
}

// Put seeds an asset under its full public id.
func (f *Remote) Put(publicID string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[publicID] = data
}

// Has reports whether publicID is stored.
func (f *Remote) Has(publicID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.assets[publicID]
	return ok
}

// Uploads returns the upload requests received so far.
func (f *Remote) Uploads() []storage.UploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.UploadRequest(nil), f.uploads...)
}

// Calls returns the number of remote calls made, URL building included.
func (f *Remote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Remote) Upload(_ context.Context, content io.Reader, req storage.UploadRequest) (storage.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailUpload != nil {
		return storage.Asset{}, f.FailUpload
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return storage.Asset{}, err
	}
	id := req.PublicID
	if req.Folder != "" {
		id = req.Folder + "/" + req.PublicID
	}
	if _, ok := f.assets[id]; ok {
		return storage.Asset{}, errors.New("resource already exists")
	}
	f.assets[id] = data
	f.uploads = append(f.uploads, req)
	return storage.Asset{PublicID: id, Format: req.Format, Bytes: int64(len(data))}, nil
}

func (f *Remote) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailDestroy != nil {
		return f.FailDestroy
	}
	if _, ok := f.assets[publicID]; !ok {
		return fmt.Errorf("destroy %q: %w", publicID, storage.ErrRemoteNotFound)
	}
	delete(f.assets, publicID)
	return nil
}

func (f *Remote) Asset(_ context.Context, publicID string) (storage.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailAsset != nil {
		return storage.Asset{}, f.FailAsset
	}
	data, ok := f.assets[publicID]
	if !ok {
		return storage.Asset{}, fmt.Errorf("asset %q: %w", publicID, storage.ErrRemoteNotFound)
	}
	return storage.Asset{PublicID: publicID, Bytes: int64(len(data))}, nil
}

func (f *Remote) ListAssets(_ context.Context, prefix string, limit int) ([]storage.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailList != nil {
		return nil, f.FailList
	}
	var out []storage.Asset
	for id, data := range f.assets {
		if strings.HasPrefix(id, prefix) {
			out = append(out, storage.Asset{PublicID: id, Bytes: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Remote) ImageURL(publicID string, t storage.Transformation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.FailURL != nil {
		return "", f.FailURL
	}
	if tr := t.String(); tr != "" {
		return "https://res.cloudinary.com/demo/image/upload/" + tr + "/" + publicID, nil
	}
	return "https://res.cloudinary.com/demo/image/upload/" + publicID, nil
}
