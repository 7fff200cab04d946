package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Values are stored as: 1 byte codec version || zstd(JSON).
const codecVersion byte = 1

var errCodec = errors.New("cache: unknown codec version")

// EncodeAll/DecodeAll are safe for concurrent use on shared coders.
var (
	zenc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zdec, _ = zstd.NewReader(nil)
)

func encodeValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal: %w", err)
	}
	return zenc.EncodeAll(raw, []byte{codecVersion}), nil
}

func decodeValue(b []byte, v any) error {
	if len(b) == 0 || b[0] != codecVersion {
		return errCodec
	}
	raw, err := zdec.DecodeAll(b[1:], nil)
	if err != nil {
		return fmt.Errorf("cache: decompress: %w", err)
	}
	return json.Unmarshal(raw, v)
}
