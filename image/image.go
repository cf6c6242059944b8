// Package image opens firmware images as read-only byte buffers.
//
// Partitions and regular files are memory-mapped where the platform supports
// it, so searching a multi-megabyte partition does not copy it onto the heap.
// Images dumped with snappy framing (files ending in ".sz") are decoded into
// memory.
//
// The size of an image is taken from Seek(0, io.SeekEnd) rather than Stat,
// because block devices report a zero size through Stat.
package image

import (
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/coregx/tzcheck/internal/conv"
)

// SnappyExt marks images stored in the snappy framing format.
const SnappyExt = ".sz"

// Image is a read-only view of a firmware image.
//
// Bytes may be shared by concurrent readers. Close must not race with readers.
type Image struct {
	path  string
	data  []byte
	unmap func() error
}

// Open maps or reads the image at path.
func Open(path string) (*Image, error) {
	if strings.HasSuffix(path, SnappyExt) {
		return openSnappy(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "image: open")
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrapf(err, "image: size of %s", path)
	}
	n, ok := conv.Int64ToInt(size)
	if !ok {
		return nil, errors.Errorf("image: %s: size %d does not fit in memory", path, size)
	}
	if n == 0 {
		return &Image{path: path, data: []byte{}}, nil
	}

	data, unmap, err := mapFile(f, n)
	if err != nil {
		return nil, errors.Wrapf(err, "image: map %s", path)
	}
	return &Image{path: path, data: data, unmap: unmap}, nil
}

func openSnappy(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "image: open")
	}
	defer f.Close()

	data, err := io.ReadAll(snappy.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "image: decode %s", path)
	}
	if data == nil {
		data = []byte{}
	}
	return &Image{path: path, data: data}, nil
}

// FromBytes wraps an in-memory buffer. path is only used for reporting.
// The image does not copy b.
func FromBytes(path string, b []byte) *Image {
	if b == nil {
		b = []byte{}
	}
	return &Image{path: path, data: b}
}

// Path returns the path the image was opened from.
func (img *Image) Path() string {
	return img.path
}

// Bytes returns the image contents. The slice is read-only and becomes
// invalid after Close; Bytes returns nil once the image is closed.
func (img *Image) Bytes() []byte {
	return img.data
}

// Len returns the image size in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// Close releases the mapping. Calling Close more than once is a no-op.
func (img *Image) Close() error {
	img.data = nil
	if img.unmap == nil {
		return nil
	}
	unmap := img.unmap
	img.unmap = nil
	return errors.Wrapf(unmap(), "image: unmap %s", img.path)
}
