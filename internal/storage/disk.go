package storage

import (
	"errors"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk keeps one file per key under a base directory.
type Disk struct {
	d *diskv.Diskv
}

func OpenDisk(basePath string) (*Disk, error) {
	if basePath == "" {
		return nil, errors.New("disk path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (s *Disk) Get(key string, v any) (bool, error) {
	if !s.d.Has(key) {
		return false, nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		return false, err
	}
	return true, decode(key, raw, v)
}

func (s *Disk) Set(key string, v any) error {
	raw, err := encode(key, v)
	if err != nil {
		return err
	}
	return s.d.Write(key, raw)
}

func (s *Disk) Delete(key string) error {
	err := s.d.Erase(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Disk) Close() error { return nil }
