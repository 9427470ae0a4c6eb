package persistence

import (
	"fmt"
	"studytime/internal/persistence/interfaces"

	"github.com/klauspost/compress/zstd"
)

// snapshotCodec packs store snapshots into single zstd frames. The encoder and
// decoder are reused across saves and are safe for concurrent EncodeAll and
// DecodeAll calls.
type snapshotCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot encoder: %w", err)
	}
	// Snapshots are read once at boot.
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("snapshot decoder: %w", err)
	}
	return &snapshotCodec{enc: enc, dec: dec}, nil
}

func (c *snapshotCodec) Compress(snapshot []byte) ([]byte, error) {
	return c.enc.EncodeAll(snapshot, nil), nil
}

func (c *snapshotCodec) Decompress(frame []byte) ([]byte, error) {
	snapshot, err := c.dec.DecodeAll(frame, nil)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot frame: %w", err)
	}
	return snapshot, nil
}

func (c *snapshotCodec) Close() {
	c.dec.Close()
	_ = c.enc.Close()
}
