//go:build !unix

package image

import (
	"io"
	"os"
)

// mapFile reads the first size bytes of f into memory on platforms without
// mmap support.
func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, nil, err
	}
	return data, nil, nil
}
