package fileloader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// CompressionType is the container format wrapping a source's bytes.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

var compressionNames = map[CompressionType]string{
	CompressionGzip:  "gzip",
	CompressionBzip2: "bzip2",
	CompressionXZ:    "xz",
}

func (ct CompressionType) String() string {
	if name, ok := compressionNames[ct]; ok {
		return name
	}
	return "none"
}

// signature pairs a magic prefix with the reader that expands it.
type signature struct {
	kind   CompressionType
	magic  []byte
	reader func(io.Reader) (io.Reader, error)
}

var signatures = []signature{
	{CompressionGzip, []byte{0x1f, 0x8b}, func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	}},
	{CompressionBzip2, []byte("BZh"), func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r), nil
	}},
	{CompressionXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	}},
}

// DetectCompression inspects the leading bytes of data.
func DetectCompression(data []byte) CompressionType {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.kind
		}
	}
	return CompressionNone
}

// DecompressionResult holds expanded bytes. Warning is set when the
// stream ended early and Data is only a prefix of the content.
type DecompressionResult struct {
	Data    []byte
	Warning string
}

// Decompress expands data compressed with ct. A stream that breaks
// mid-way keeps what was read so far and reports a warning.
func Decompress(data []byte, ct CompressionType) (*DecompressionResult, error) {
	if ct == CompressionNone {
		return &DecompressionResult{Data: data}, nil
	}

	var open func(io.Reader) (io.Reader, error)
	for _, sig := range signatures {
		if sig.kind == ct {
			open = sig.reader
			break
		}
	}
	if open == nil {
		return nil, fmt.Errorf("unsupported compression type: %v", ct)
	}

	r, err := open(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s stream: %w", ct, err)
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	var buf bytes.Buffer
	_, copyErr := io.Copy(&buf, r)
	if copyErr == nil {
		return &DecompressionResult{Data: buf.Bytes()}, nil
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%s decompression failed: %w", ct, copyErr)
	}
	return &DecompressionResult{
		Data:    buf.Bytes(),
		Warning: fmt.Sprintf("%s stream truncated after %d bytes: %v", ct, buf.Len(), copyErr),
	}, nil
}
