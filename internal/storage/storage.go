// Package storage keeps exported artifacts until they are downloaded.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Driver identifies a concrete store implementation.
type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
)

var (
	ErrNotFound    = errors.New("artifact not found")
	ErrExists      = errors.New("artifact already exists")
	ErrInvalidName = errors.New("invalid artifact name")
)

// Info describes a stored artifact.
type Info struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"mime"`
	Checksum    string    `json:"checksum,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store holds named artifacts. Names are flat: no path separators.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, name string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, name string) (Info, error)
	Delete(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Open returns a filesystem store rooted at dir, or a memory store when dir
// is empty.
func Open(dir string) (Store, error) {
	if dir == "" {
		return NewMemory(), nil
	}
	return NewFilesystem(dir)
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.HasSuffix(name, metaSuffix):
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	return nil
}
