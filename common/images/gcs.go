// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package images

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/storage"
)

// GCS writes files to a public Cloud Storage bucket.
type GCS struct {
	storage *storage.Client
	bucket  string
}

var _ Writer = (*GCS)(nil)

func NewGCS(storage *storage.Client, bucket string) *GCS {
	return &GCS{
		storage: storage,
		bucket:  bucket,
	}
}

func (g *GCS) WriteFile(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	wc := g.storage.Bucket(g.bucket).Object(path).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("images: writing file: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("images: closing writer: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, path), nil
}

func (g *GCS) DeleteFile(ctx context.Context, path string) error {
	err := g.storage.Bucket(g.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("images: deleting file: %w", err)
	}
	return nil
}

// Memory keeps files in memory, for tests and local runs.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Writer = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		files: map[string][]byte{},
	}
}

func (m *Memory) WriteFile(_ context.Context, path string, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return "memory:///" + path, nil
}

func (m *Memory) DeleteFile(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

// File returns the contents of a written file.
func (m *Memory) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return data, ok
}
