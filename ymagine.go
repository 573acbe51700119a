// Package ymagine is a streaming image decode/transform/encode
// pipeline: probe a source image, compute a crop and scale against a
// requested output geometry, push decoded rows through a resampling
// transformer and an optional pixel shader, and write the result out
// through a codec-specific encoder. JPEG, PNG, GIF, and WebP are
// supported on the decode side and JPEG, PNG, and WebP on the encode
// side (there is no GIF encoder); WebP decode/encode is provided by
// github.com/deepteams/webp, wrapped by codec/webpcodec. Animated
// WebP (ANIM/ANMF) is out of scope — only the first frame of an
// animated source is ever decoded.
//
// See cmd/ymagine for a command-line driver and dispatch.DecodeImage,
// dispatch.Transcode, and dispatch.EncodeImage for the pipeline entry
// points.
package ymagine
