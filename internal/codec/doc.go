// Package codec implements the chunk codec pipeline used by array storage.
//
// Every chunk written to a store passes through a pipeline of filters
// followed by an optional compressor. When reading, the compressor is
// undone first and the filters are then applied in reverse order.
//
// # Supported Codecs
//
//   - zstd: Zstandard compression via [Zstd], backed by
//     github.com/klauspost/compress/zstd. Levels 1 (fastest) to 4 (best).
//
//   - shuffle: Byte shuffling via [Shuffle]. Rearranges bytes to
//     improve compression by grouping similar byte positions together
//     (e.g., all MSBs, then all second bytes, etc.).
//
//   - fletcher32: Checksum validation via [Fletcher32Filter]. Appends a
//     32-bit Fletcher checksum on encode and verifies it on decode.
//
// # Codec Pipeline
//
// The [Pipeline] type manages the codecs of one array:
//
//	p, err := codec.NewPipeline(filters, compressor)
//	encoded, err := p.Encode(chunk)
//	decoded, err := p.Decode(encoded)
//
// Codec configurations are the JSON objects stored in array metadata,
// e.g. {"id": "zstd", "level": 2} or {"id": "shuffle", "elementsize": 2}.
package codec
