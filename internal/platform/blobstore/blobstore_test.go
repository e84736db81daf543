package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func pdfMeta(owner, category string) BlobMetadata {
	return BlobMetadata{
		FileName:    "consent.pdf",
		ContentType: "application/pdf",
		OwnerID:     owner,
		Category:    category,
	}
}

func TestUploadAndDownload(t *testing.T) {
	s := NewInMemoryBlobStore()
	ctx := context.Background()

	meta, err := s.Upload(ctx, pdfMeta("user-1", CategoryConsentCertificate), strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if meta.ID == "" || meta.Hash == "" {
		t.Fatal("id or hash not set")
	}
	if meta.Size != int64(len("%PDF-1.4 fake")) {
		t.Errorf("Size = %d", meta.Size)
	}

	rc, got, err := s.Download(ctx, meta.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, []byte("%PDF-1.4 fake")) {
		t.Error("content mismatch")
	}
	if got.FileName != "consent.pdf" {
		t.Errorf("FileName = %q", got.FileName)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	s := NewInMemoryBlobStore()
	meta := pdfMeta("user-1", CategoryLicense)
	meta.ContentType = "image/png"

	if _, err := s.Upload(context.Background(), meta, strings.NewReader("x")); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("err = %v, want ErrInvalidContentType", err)
	}
}

func TestUploadRejectsMissingFileName(t *testing.T) {
	s := NewInMemoryBlobStore()
	meta := pdfMeta("user-1", CategoryLicense)
	meta.FileName = ""

	if _, err := s.Upload(context.Background(), meta, strings.NewReader("x")); !errors.Is(err, ErrMissingFileName) {
		t.Fatalf("err = %v, want ErrMissingFileName", err)
	}
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	s := NewInMemoryBlobStore()
	big := bytes.NewReader(make([]byte, MaxFileSize+1))

	if _, err := s.Upload(context.Background(), pdfMeta("user-1", CategoryConsentCertificate), big); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestLatestByOwnerPicksNewest(t *testing.T) {
	s := NewInMemoryBlobStore()
	ctx := context.Background()

	first, err := s.Upload(ctx, pdfMeta("user-1", CategoryConsentCertificate), strings.NewReader("v1"))
	if err != nil {
		t.Fatal(err)
	}
	// uploads in the same instant would tie on CreatedAt
	s.mu.Lock()
	s.blobs[first.ID].meta.CreatedAt = time.Now().Add(-time.Minute)
	s.mu.Unlock()

	second, err := s.Upload(ctx, pdfMeta("user-1", CategoryConsentCertificate), strings.NewReader("v2"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.LatestByOwner(ctx, "user-1", CategoryConsentCertificate)
	if err != nil {
		t.Fatalf("LatestByOwner: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("got %s, want newest %s", got.ID, second.ID)
	}

	if _, err := s.LatestByOwner(ctx, "user-1", CategoryLicense); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("other category: err = %v, want ErrBlobNotFound", err)
	}
	if _, err := s.LatestByOwner(ctx, "user-2", CategoryConsentCertificate); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("other owner: err = %v, want ErrBlobNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewInMemoryBlobStore()
	ctx := context.Background()

	meta, _ := s.Upload(ctx, pdfMeta("user-1", CategoryLicense), strings.NewReader("x"))
	if err := s.Delete(ctx, meta.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := s.Download(ctx, meta.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("err = %v, want ErrBlobNotFound", err)
	}
	if err := s.Delete(ctx, meta.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("double delete: err = %v, want ErrBlobNotFound", err)
	}
}
