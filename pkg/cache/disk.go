// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	entrySuffix = ".entry"
	headerSize  = 8
)

// DiskCache is a disk-based cache. Each key is one file under path,
// named by the SHA-256 of the key. The file holds an 8-byte big-endian
// expiry in unix nanoseconds (0 never expires) followed by the value.
type DiskCache struct {
	path string
}

// NewDiskCache creates a new disk cache.
func NewDiskCache(path string) *DiskCache {
	return &DiskCache{
		path: path,
	}
}

// Path returns the cache directory.
func (d *DiskCache) Path() string {
	return d.path
}

func (d *DiskCache) file(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.path, hex.EncodeToString(sum[:])+entrySuffix)
}

// Get retrieves a value from disk cache.
func (d *DiskCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize {
		return nil, ErrCacheMiss
	}
	if expired(data[:headerSize], time.Now()) {
		return nil, ErrCacheMiss
	}
	return data[headerSize:], nil
}

// Set stores a value in disk cache.
func (d *DiskCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	var exp int64
	if at := expiry(ttl); !at.IsZero() {
		exp = at.UnixNano()
	}
	buf := make([]byte, headerSize+len(value))
	binary.BigEndian.PutUint64(buf[:headerSize], uint64(exp))
	copy(buf[headerSize:], value)

	tmp, err := os.CreateTemp(d.path, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.file(key))
}

// Delete removes a value from disk cache.
func (d *DiskCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all entries from disk cache. The directory itself is kept.
func (d *DiskCache) Clear(ctx context.Context) error {
	entries, err := d.entries()
	if err != nil {
		return err
	}
	for _, name := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(d.path, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Len returns the number of unexpired entries on disk.
func (d *DiskCache) Len(ctx context.Context) (int, error) {
	entries, err := d.entries()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	n := 0
	for _, name := range entries {
		header, err := readHeader(filepath.Join(d.path, name))
		if err != nil {
			continue
		}
		if !expired(header, now) {
			n++
		}
	}
	return n, nil
}

func (d *DiskCache) entries() ([]string, error) {
	dirents, err := os.ReadDir(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() || !strings.HasSuffix(de.Name(), entrySuffix) {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, err
	}
	return header, nil
}

func expired(header []byte, now time.Time) bool {
	exp := int64(binary.BigEndian.Uint64(header))
	return exp != 0 && now.UnixNano() > exp
}
