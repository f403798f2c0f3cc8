package volume

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ardnew/softsp/pkg"
	"github.com/ardnew/softsp/smartport"
)

// Storage defines the interface for volume storage backends.
// Implementations provide access to fixed 512-byte blocks.
type Storage interface {
	// BlockCount returns the total number of blocks.
	BlockCount() uint32

	// ReadBlock reads block into out.
	ReadBlock(block uint32, out *smartport.Sector) error

	// WriteBlock writes in to block.
	WriteBlock(block uint32, in *smartport.Sector) error

	// Sync flushes any cached writes to storage.
	Sync() error

	// IsReadOnly returns true if storage is write protected.
	IsReadOnly() bool

	// IsPresent returns true if media is present.
	IsPresent() bool
}

// MemoryStorage implements Storage using an in-memory buffer.
type MemoryStorage struct {
	data     []byte
	readOnly bool
	present  bool
	mutex    sync.RWMutex
}

// NewMemoryStorage creates an in-memory volume of the given number of blocks.
func NewMemoryStorage(blocks uint32) *MemoryStorage {
	return &MemoryStorage{
		data:    make([]byte, uint64(blocks)*smartport.SectorSize),
		present: true,
	}
}

// BlockCount returns the number of blocks.
func (m *MemoryStorage) BlockCount() uint32 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return uint32(len(m.data) / smartport.SectorSize)
}

// ReadBlock reads a block from memory.
func (m *MemoryStorage) ReadBlock(block uint32, out *smartport.Sector) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if !m.present {
		return pkg.ErrNoMedia
	}

	offset, err := blockOffset(block, uint64(len(m.data)))
	if err != nil {
		return err
	}

	copy(out[:], m.data[offset:])
	return nil
}

// WriteBlock writes a block to memory.
func (m *MemoryStorage) WriteBlock(block uint32, in *smartport.Sector) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.present {
		return pkg.ErrNoMedia
	}

	if m.readOnly {
		return fmt.Errorf("%w: block %d", pkg.ErrWriteProtected, block)
	}

	offset, err := blockOffset(block, uint64(len(m.data)))
	if err != nil {
		return err
	}

	copy(m.data[offset:offset+smartport.SectorSize], in[:])
	return nil
}

// Sync is a no-op for memory storage.
func (m *MemoryStorage) Sync() error {
	return nil
}

// IsReadOnly returns whether the storage is write protected.
func (m *MemoryStorage) IsReadOnly() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.readOnly
}

// SetReadOnly sets the write protect flag.
func (m *MemoryStorage) SetReadOnly(readOnly bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.readOnly = readOnly
}

// IsPresent returns whether media is present.
func (m *MemoryStorage) IsPresent() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.present
}

// SetPresent sets the media presence flag.
func (m *MemoryStorage) SetPresent(present bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.present = present
}

// FileStorage implements Storage using a disk image file. Trailing bytes
// that do not fill a whole block are not addressable.
type FileStorage struct {
	file     *os.File
	size     uint64
	readOnly bool
	mutex    sync.RWMutex
}

// NewFileStorage opens an existing image file.
// If readOnly is true, the file is opened in read-only mode.
func NewFileStorage(path string, readOnly bool) (*FileStorage, error) {
	flags := os.O_RDWR
	if readOnly {
		flags = os.O_RDONLY
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	size := uint64(stat.Size())
	if size/smartport.SectorSize > smartport.MaxBlockCount {
		size = smartport.MaxBlockCount * smartport.SectorSize
		pkg.LogWarn(pkg.ComponentVolume, "image larger than addressable range",
			"path", path, "size", stat.Size(), "blocks", smartport.MaxBlockCount)
	}

	return &FileStorage{
		file:     file,
		size:     size,
		readOnly: readOnly,
	}, nil
}

// CreateFileStorage creates a zero-filled image file of the given number of
// blocks, truncating any existing file, and opens it for writing.
func CreateFileStorage(path string, blocks uint32) (*FileStorage, error) {
	if blocks > smartport.MaxBlockCount {
		return nil, fmt.Errorf("%w: %d blocks", pkg.ErrBlockOutOfRange, blocks)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	size := uint64(blocks) * smartport.SectorSize
	if err := file.Truncate(int64(size)); err != nil {
		file.Close()
		return nil, err
	}

	return &FileStorage{
		file: file,
		size: size,
	}, nil
}

// BlockCount returns the number of blocks.
func (f *FileStorage) BlockCount() uint32 {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return uint32(f.size / smartport.SectorSize)
}

// ReadBlock reads a block from the image.
func (f *FileStorage) ReadBlock(block uint32, out *smartport.Sector) error {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if f.file == nil {
		return pkg.ErrNoMedia
	}

	offset, err := blockOffset(block, f.size)
	if err != nil {
		return err
	}

	_, err = f.file.ReadAt(out[:], int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// WriteBlock writes a block to the image.
func (f *FileStorage) WriteBlock(block uint32, in *smartport.Sector) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file == nil {
		return pkg.ErrNoMedia
	}

	if f.readOnly {
		return fmt.Errorf("%w: block %d", pkg.ErrWriteProtected, block)
	}

	offset, err := blockOffset(block, f.size)
	if err != nil {
		return err
	}

	_, err = f.file.WriteAt(in[:], int64(offset))
	return err
}

// Sync flushes image writes to disk.
func (f *FileStorage) Sync() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.readOnly || f.file == nil {
		return nil
	}

	return f.file.Sync()
}

// IsReadOnly returns whether the storage is write protected.
func (f *FileStorage) IsReadOnly() bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.readOnly
}

// IsPresent returns true until the image is closed.
func (f *FileStorage) IsPresent() bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.file != nil
}

// Close closes the underlying file.
func (f *FileStorage) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.file != nil {
		err := f.file.Close()
		f.file = nil
		return err
	}
	return nil
}

// blockOffset returns the byte offset of block in a volume of size bytes.
func blockOffset(block uint32, size uint64) (uint64, error) {
	offset := uint64(block) * smartport.SectorSize
	if offset+smartport.SectorSize > size {
		return 0, fmt.Errorf("%w: block %d of %d", pkg.ErrBlockOutOfRange, block, size/smartport.SectorSize)
	}
	return offset, nil
}
