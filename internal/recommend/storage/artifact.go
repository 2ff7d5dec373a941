// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/fashionrec/internal/recommend"
)

// FormatVersion is bumped whenever the envelope or a payload changes shape.
const FormatVersion = 1

// Kind identifies what an artifact contains.
type Kind string

// Artifact kinds.
const (
	KindMatrix Kind = "interaction_matrix"
	KindModel  Kind = "neighbor_model"
)

// Metadata describes a stored artifact.
type Metadata struct {
	Kind    Kind   `json:"kind"`
	Version int    `json:"version"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	NonZero int    `json:"nonzero"`
	K       int    `json:"k,omitempty"`
	Metric  string `json:"metric,omitempty"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format for binary artifacts.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// WriteAtomic writes path through a temporary sibling file that is renamed
// into place once write returns successfully.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()        //nolint:errcheck // already failing, close error is not actionable
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup of the temporary file
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // artifacts are meant to be readable
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// save encodes payload into an envelope and writes it atomically.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func save(stage, path string, meta Metadata, payload any) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("encode %s: %w", meta.Kind, err))
	}

	hash := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.Version = FormatVersion

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("compress: %w", err))
	}
	if err := gzw.Close(); err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("finalize compression: %w", err))
	}
	meta.SizeBytes = int64(compressed.Len())

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	err := WriteAtomic(path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(sf)
	})
	if err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, path, err)
	}
	return nil
}

// load reads an envelope, verifies kind and checksum, and decodes the
// payload into target.
func load(stage, path string, kind Kind, target any) (*Metadata, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, recommend.NewError(stage, recommend.ErrSourceNotFound, path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("read artifact: %w", err))
	}
	if sf.Metadata.Kind != kind {
		return nil, recommend.Errorf(stage, recommend.ErrPersistence, path, "artifact holds %q, want %q", sf.Metadata.Kind, kind)
	}
	if sf.Metadata.Version != FormatVersion {
		return nil, recommend.Errorf(stage, recommend.ErrPersistence, path, "format version %d, want %d", sf.Metadata.Version, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("decompress: %w", err))
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("read decompressed data: %w", err))
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, recommend.Errorf(stage, recommend.ErrPersistence, path,
			"checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, recommend.NewError(stage, recommend.ErrPersistence, path, fmt.Errorf("decode %s: %w", kind, err))
	}
	return &sf.Metadata, nil
}
