package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gammafit/gammafit/internal/skymap"
)

// Reader reads .gfit container files.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	version    uint32
	checksum   [ChecksumSize]byte
	dataOffset int64
	dataSize   int64
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewReader creates a .gfit file reader with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// NewReaderWithOptions creates a .gfit file reader with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: the path is caller-provided by design
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := &Reader{file: file, opts: opts}
	if err := reader.parseHeader(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	reader.dataSize = info.Size() - reader.dataOffset

	if err := ValidateHeader(&reader.header, reader.dataSize, opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := reader.validateChecksum(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return reader, nil
}

func (r *Reader) parseHeader() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r.file, magic); err != nil {
		return fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return ErrInvalidMagic
	}

	if err := binary.Read(r.file, binary.LittleEndian, &r.version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if r.version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, r.version, FormatVersion)
	}

	if err := binary.Read(r.file, binary.LittleEndian, &r.flags); err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	if _, err := io.ReadFull(r.file, r.checksum[:]); err != nil {
		return fmt.Errorf("failed to read checksum: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return fmt.Errorf("header size %d exceeds maximum %d", headerSize, MaxHeaderSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &r.header); err != nil {
		return fmt.Errorf("failed to unmarshal header: %w", err)
	}

	pos := int64(4+4+4+ChecksumSize+8) + int64(headerSize)
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	r.dataOffset = pos + padding

	return nil
}

func (r *Reader) validateChecksum() error {
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to data section: %w", err)
	}
	h := sha256.New()
	if _, err := io.Copy(h, r.file); err != nil {
		return fmt.Errorf("failed to hash data section: %w", err)
	}
	var computed [ChecksumSize]byte
	copy(computed[:], h.Sum(nil))
	if computed != r.checksum {
		return ErrChecksumMismatch
	}
	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the custom metadata from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// ArrayNames returns the names of all arrays in the file.
func (r *Reader) ArrayNames() []string {
	names := make([]string, len(r.header.Arrays))
	for i, a := range r.header.Arrays {
		names[i] = a.Name
	}
	return names
}

// ArrayInfo returns metadata for a specific array.
func (r *Reader) ArrayInfo(name string) (*ArrayMeta, error) {
	for i := range r.header.Arrays {
		if r.header.Arrays[i].Name == name {
			return &r.header.Arrays[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrArrayNotFound, name)
}

// ReadArray reads one named grid from the data section.
func (r *Reader) ReadArray(name string) (*skymap.Map, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	meta, err := r.ArrayInfo(name)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(raw, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("failed to read array %s: %w", name, err)
	}

	data := make([]float64, meta.Size/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}

	m, err := skymap.FromData(data, meta.Shape, meta.Unit)
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", name, err)
	}
	return m, nil
}

// ReadAll reads every array in the file.
func (r *Reader) ReadAll() (map[string]*skymap.Map, error) {
	arrays := make(map[string]*skymap.Map, len(r.header.Arrays))
	for _, meta := range r.header.Arrays {
		m, err := r.ReadArray(meta.Name)
		if err != nil {
			return nil, err
		}
		arrays[meta.Name] = m
	}
	return arrays, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFile reads a complete .gfit file in one call, returning the header and
// all arrays.
func ReadFile(path string) (Header, map[string]*skymap.Map, error) {
	reader, err := NewReader(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	arrays, err := reader.ReadAll()
	if err != nil {
		return Header{}, nil, err
	}
	return reader.Header(), arrays, nil
}
