package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"clubhub/internal/storage"
)

// saveUpload validates the file against the policy and forwards it to the
// store. Policy violations surface as client errors before any storage call.
func saveUpload(ctx context.Context, store storage.Store, folder string, fh *multipart.FileHeader, allowed []string, maxSize int64) (string, error) {
	if err := storage.CheckFile(fh, allowed, maxSize); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ref, err := store.Save(ctx, folder, fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return ref, nil
}
