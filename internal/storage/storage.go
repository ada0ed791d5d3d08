// Package storage implements the upload relay: an incoming file is forwarded
// to a backend and the resulting reference string is persisted on the owning
// record. Backends are local disk (served statically) or MinIO object storage.
package storage

import (
	"context"
	"io"
	"mime/multipart"

	"clubhub/internal/errors"
)

// Store saves uploaded files and returns a stable reference for them.
type Store interface {
	// Save stores the stream and returns a reference (URL or path).
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error)
	// Remove deletes a previously stored file by its reference. Used as a
	// best-effort rollback when the owning record's write fails.
	Remove(ctx context.Context, ref string) error
}

// Upload policies. Proof files (payments, expenses) allow images and PDF up
// to 5 MiB; avatars allow images only up to 3 MiB.
var (
	ProofTypes  = []string{"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp", "application/pdf"}
	AvatarTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
)

const (
	MaxProofSize  = 5 << 20
	MaxAvatarSize = 3 << 20
)

// CheckFile rejects files outside the content-type allow-list or over the
// size cap before any storage call is made.
func CheckFile(fh *multipart.FileHeader, allowed []string, maxSize int64) error {
	if fh.Size > maxSize {
		return errors.ErrFileTooLarge
	}
	ct := fh.Header.Get("Content-Type")
	for _, a := range allowed {
		if ct == a {
			return nil
		}
	}
	return errors.ErrFileType
}
