// Package compress provides compression and decompression codecs for
// persisted posting-store snapshots (§6.3).
//
// # Overview
//
// A snapshot compresses its concatenated block payload with one codec; the
// header and block headers are written uncompressed. Supported algorithms:
//   - None: no compression (fastest, largest)
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed
//   - LZ4: fastest decompression, moderate compression ratio
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Algorithm Selection Guide
//
// | Workload              | Recommended | Reason                         |
// |------------------------|-------------|--------------------------------|
// | Storage-constrained    | Zstd        | Best compression ratio         |
// | Snapshot-heavy writes  | S2          | Balanced speed and compression |
// | Load-heavy reads       | LZ4         | Fastest decompression          |
// | CPU-constrained        | None        | No compression overhead        |
//
// # Memory Management
//
// Input slices are never modified. The Zstd, S2 and LZ4 codecs return newly
// allocated slices owned by the caller; the no-op codec returns its input
// slice itself.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
//
// # Extending
//
// Implement Compressor/Decompressor/Codec for a custom algorithm and pass
// the value directly where a Codec is accepted. CreateCodec/GetCodec return
// only the built-in codecs; there is no registration for new
// CompressionType values.
package compress
