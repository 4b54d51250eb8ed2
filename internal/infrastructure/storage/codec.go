package storage

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DefaultCompressThreshold is the blob size above which backends store the
// zstd-compressed form.
const DefaultCompressThreshold = 10 * 1024

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Codec compresses large blobs. Decoded output is always the plain JSON,
// so compressed and uncompressed values can be mixed under one backend.
type Codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewCodec creates a codec. threshold <= 0 uses DefaultCompressThreshold.
func NewCodec(threshold int) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &Codec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// Encode returns value compressed when it exceeds the threshold.
func (c *Codec) Encode(value []byte) (out []byte, compressed bool) {
	if len(value) <= c.threshold {
		return value, false
	}
	return c.encoder.EncodeAll(value, nil), true
}

// Decode reverses Encode. Uncompressed input is returned as is.
func (c *Codec) Decode(value []byte) ([]byte, error) {
	if !bytes.HasPrefix(value, zstdMagic) {
		return value, nil
	}
	out, err := c.decoder.DecodeAll(value, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress value: %w", err)
	}
	return out, nil
}
