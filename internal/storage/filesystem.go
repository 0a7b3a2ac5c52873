package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const metaSuffix = ".meta"

// Filesystem stores each artifact as a file under root with a JSON sidecar
// (name + ".meta") holding its content type and checksum.
type Filesystem struct {
	root string
}

type metaFile struct {
	ContentType string    `json:"content_type,omitempty"`
	Checksum    string    `json:"checksum"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFilesystem returns a store rooted at root, creating the directory if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

func (s *Filesystem) paths(name string) (dataPath, metaPath string, err error) {
	if err := validateName(name); err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, name)
	return dataPath, dataPath + metaSuffix, nil
}

// Put streams r to a temporary file and moves it into place, so readers never
// observe a partial artifact.
func (s *Filesystem) Put(_ context.Context, name string, r io.Reader, contentType string) (Info, error) {
	dataPath, metaPath, err := s.paths(name)
	if err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, name)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		_ = tmp.Close()
		return Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return Info{}, err
	}

	now := time.Now().UTC()
	meta := metaFile{
		ContentType: contentType,
		Checksum:    hex.EncodeToString(h.Sum(nil)),
		Size:        size,
		CreatedAt:   now,
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		_ = os.Remove(metaPath)
		return Info{}, err
	}
	return meta.info(name), nil
}

func (s *Filesystem) Get(ctx context.Context, name string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, name)
	if err != nil {
		return Info{}, nil, err
	}
	dataPath, _, _ := s.paths(name)
	file, err := os.Open(dataPath)
	if err != nil {
		return Info{}, nil, notFound(name, err)
	}
	return info, file, nil
}

func (s *Filesystem) Head(_ context.Context, name string) (Info, error) {
	dataPath, metaPath, err := s.paths(name)
	if err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(dataPath); err != nil {
		return Info{}, notFound(name, err)
	}
	meta, err := readMeta(metaPath)
	if err != nil {
		return Info{}, notFound(name, err)
	}
	return meta.info(name), nil
}

func (s *Filesystem) Delete(_ context.Context, name string) (bool, error) {
	dataPath, metaPath, err := s.paths(name)
	if err != nil {
		return false, err
	}
	err = os.Remove(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

func (s *Filesystem) List(ctx context.Context, prefix string) ([]Info, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, metaSuffix) {
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := s.Head(ctx, name)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m metaFile) info(name string) Info {
	return Info{
		Name:        name,
		Size:        m.Size,
		ContentType: m.ContentType,
		Checksum:    m.Checksum,
		CreatedAt:   m.CreatedAt,
	}
}

func writeMeta(path string, meta metaFile) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readMeta(path string) (metaFile, error) {
	var meta metaFile
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return meta, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
