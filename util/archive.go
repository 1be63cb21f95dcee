// util/archive.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// WriteArchive msgpack-encodes obj and writes it zstd-compressed to w.
func WriteArchive(w io.Writer, obj any) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(obj); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadArchive decodes an archive written by WriteArchive into obj.
func ReadArchive(r io.Reader, obj any) error {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return err
	}
	defer zr.Close()

	return msgpack.NewDecoder(zr).Decode(obj)
}

// WriteArchiveFile writes obj to the named file via WriteArchive.
func WriteArchiveFile(path string, obj any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteArchive(f, obj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadArchiveFile(path string, obj any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return ReadArchive(f, obj)
}

// HashObject returns a hex SHA-256 digest of the msgpack encoding of obj;
// equal values of the same type hash identically.
func HashObject(obj any) (string, error) {
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
