package reportlog

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// maxBatchBytes bounds a decompressed batch so a corrupt frame cannot
// exhaust memory.
const maxBatchBytes = 256 << 20

// Shared coders; EncodeAll and DecodeAll are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("reportlog: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxBatchBytes),
	)
	if err != nil {
		panic("reportlog: zstd decoder initialization failed: " + err.Error())
	}
}

func compress(payload []byte) []byte {
	return zstdEncoder.EncodeAll(payload, nil)
}

func decompress(stored []byte) ([]byte, error) {
	payload, err := zstdDecoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return payload, nil
}
