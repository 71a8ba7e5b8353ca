// Package shader loads precompiled SPIR-V binaries.
package shader

import (
	"encoding/binary"
	"io/fs"

	"github.com/cockroachdb/errors"
)

// Magic is the first word of every SPIR-V module.
const Magic uint32 = 0x07230203

var ErrInvalidBytecode = errors.New("invalid SPIR-V bytecode")

// Load reads the shader at path and returns it as 32-bit words.
func Load(fsys fs.FS, path string) ([]uint32, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "load shader %s", path)
	}

	code, err := Decode(b)
	if err != nil {
		return nil, errors.Wrapf(err, "load shader %s", path)
	}
	return code, nil
}

// Decode turns raw SPIR-V bytes into words. Both byte orders are accepted;
// the magic number decides which one the file uses.
func Decode(b []byte) ([]uint32, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(ErrInvalidBytecode, "empty file")
	}
	if len(b)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidBytecode, "size %d is not a multiple of 4", len(b))
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case binary.LittleEndian.Uint32(b) == Magic:
	case binary.BigEndian.Uint32(b) == Magic:
		order = binary.BigEndian
	default:
		return nil, errors.Wrapf(ErrInvalidBytecode, "bad magic number 0x%08x", binary.LittleEndian.Uint32(b))
	}

	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = order.Uint32(b[i*4:])
	}
	return code, nil
}
