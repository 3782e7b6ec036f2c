package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gammafit/gammafit/internal/skymap"
)

const creatorVersion = "0.1.0"

// Writer writes .gfit container files.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a .gfit file writer. Unless overwrite is true, writing to
// an existing path fails with ErrFileExists.
func NewWriter(path string, overwrite bool) (*Writer, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	//nolint:gosec // G304: the path is caller-provided by design
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteArrays writes the named grids under the given container name.
//
// Arrays are laid out in lexical name order so identical inputs produce
// byte-identical files.
func (w *Writer) WriteArrays(name string, arrays map[string]*skymap.Map, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	order := make([]string, 0, len(arrays))
	for arrayName := range arrays {
		if err := ValidateArrayName(arrayName); err != nil {
			return err
		}
		order = append(order, arrayName)
	}
	sort.Strings(order)

	header := Header{
		FormatVersion:  FormatVersion,
		CreatorVersion: creatorVersion,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
		Metadata:       metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Assemble the data section up front: the checksum goes into the fixed
	// header, before the data, so the section must be complete first.
	var data bytes.Buffer
	var offset int64
	header.Arrays = make([]ArrayMeta, 0, len(arrays))
	for _, arrayName := range order {
		m := arrays[arrayName]
		size := int64(m.NumElements() * 8)
		header.Arrays = append(header.Arrays, ArrayMeta{
			Name:   arrayName,
			Shape:  append([]int(nil), m.Shape...),
			Unit:   m.Unit,
			Offset: offset,
			Size:   size,
		})
		if err := binary.Write(&data, binary.LittleEndian, m.Data); err != nil {
			return fmt.Errorf("failed to encode array %s: %w", arrayName, err)
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return fmt.Errorf("header size %d exceeds maximum %d", len(headerJSON), MaxHeaderSize)
	}

	checksum := sha256.Sum256(data.Bytes())

	if _, err := w.file.WriteString(MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	var flags uint32
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if err := binary.Write(w.file, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	if _, err := w.file.Write(checksum[:]); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	pos := int64(4+4+4+ChecksumSize+8) + int64(len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := w.file.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write data section: %w", err)
	}

	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteFile writes a complete .gfit file in one call.
func WriteFile(path, name string, arrays map[string]*skymap.Map, metadata map[string]string, overwrite bool) error {
	writer, err := NewWriter(path, overwrite)
	if err != nil {
		return err
	}
	if err := writer.WriteArrays(name, arrays, metadata); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}
