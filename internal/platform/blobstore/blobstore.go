// Package blobstore stores the documents users attach at registration:
// patient consent certificates and specialist licenses. It defines the
// BlobStore interface and an in-memory implementation suitable for
// development and testing; a durable implementation can be swapped in behind
// the same interface.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed document size in bytes (5 MB), matching
// the registration form limit.
const MaxFileSize = 5 * 1024 * 1024

// Document categories.
const (
	CategoryConsentCertificate = "consent-certificate"
	CategoryLicense            = "license"
)

// AllowedContentTypes lists the accepted document MIME types. Registration
// documents are PDF only.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
}

// BlobMetadata describes a stored document.
type BlobMetadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	OwnerID     string    `json:"owner_id"`
	Category    string    `json:"category"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// BlobStore stores and retrieves user documents.
type BlobStore interface {
	Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error)
	// LatestByOwner returns the most recently uploaded document of the given
	// category for a user.
	LatestByOwner(ctx context.Context, ownerID, category string) (*BlobMetadata, error)
	Delete(ctx context.Context, id string) error
}

type storedBlob struct {
	meta    BlobMetadata
	content []byte
}

// InMemoryBlobStore is a thread-safe in-memory BlobStore.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]*storedBlob
}

func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{blobs: make(map[string]*storedBlob)}
}

func (s *InMemoryBlobStore) Upload(_ context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}
	if !AllowedContentTypes[meta.ContentType] {
		return nil, ErrInvalidContentType
	}

	// read one byte past the cap to detect oversize without buffering more
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	sum := sha256.Sum256(data)
	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = hex.EncodeToString(sum[:])
	meta.CreatedAt = time.Now()

	s.mu.Lock()
	s.blobs[meta.ID] = &storedBlob{meta: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

func (s *InMemoryBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[id]
	if !ok {
		return nil, nil, ErrBlobNotFound
	}
	meta := b.meta
	return io.NopCloser(bytes.NewReader(b.content)), &meta, nil
}

func (s *InMemoryBlobStore) LatestByOwner(_ context.Context, ownerID, category string) (*BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*BlobMetadata
	for _, b := range s.blobs {
		if b.meta.OwnerID == ownerID && b.meta.Category == category {
			meta := b.meta
			matches = append(matches, &meta)
		}
	}
	if len(matches) == 0 {
		return nil, ErrBlobNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches[0], nil
}

func (s *InMemoryBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, id)
	return nil
}
