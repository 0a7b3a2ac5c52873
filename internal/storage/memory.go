package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	info Info
	data []byte
}

// Memory keeps artifacts in process memory.
type Memory struct {
	mu   sync.RWMutex
	objs map[string]memoryEntry
}

func NewMemory() *Memory { return &Memory{objs: make(map[string]memoryEntry)} }

func (s *Memory) Driver() Driver { return DriverMemory }

// Put stores a new artifact; existing names are never overwritten.
func (s *Memory) Put(_ context.Context, name string, r io.Reader, contentType string) (Info, error) {
	if err := validateName(name); err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[name]; exists {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, name)
	}
	info := Info{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Checksum:    checksum(data),
		CreatedAt:   time.Now().UTC(),
	}
	s.objs[name] = memoryEntry{info: info, data: data}
	return info, nil
}

func (s *Memory) Get(_ context.Context, name string) (Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[name]
	s.mu.RUnlock()
	if !ok {
		return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Memory) Head(_ context.Context, name string) (Info, error) {
	s.mu.RLock()
	obj, ok := s.objs[name]
	s.mu.RUnlock()
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return obj.info, nil
}

// Delete removes the artifact, reporting whether it existed.
func (s *Memory) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[name]
	delete(s.objs, name)
	return ok, nil
}

func (s *Memory) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.objs))
	for name, obj := range s.objs {
		if strings.HasPrefix(name, prefix) {
			out = append(out, obj.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
