package jpegcodec

import (
	"bytes"
	"encoding/binary"

	ybitmap "github.com/yimagine/ymagine/bitmap"
)

const app1Marker = 0xE1

// extractXMPPano scans the raw JPEG bytes for an APP1 segment carrying an
// Adobe XMP packet and, if one is present, parses its GPano: fields. It
// also tolerates the Exif APP1 segment (which shares the marker) by
// requiring the "http://ns.adobe.com/xap/1.0/" namespace signature
// before attempting a GPano scan.
func extractXMPPano(data []byte) *ybitmap.XMPPano {
	xmpSig := []byte("http://ns.adobe.com/xap/1.0/\x00")
	pos := 2 // skip SOI
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		if marker == 0xD8 || marker == 0xD9 {
			pos += 2
			continue
		}
		if marker < 0xD0 || marker > 0xD9 {
			if pos+4 > len(data) {
				break
			}
			segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
			segStart := pos + 4
			segEnd := pos + 2 + segLen
			if segEnd > len(data) || segEnd < segStart {
				break
			}
			if marker == app1Marker && bytes.HasPrefix(data[segStart:segEnd], xmpSig) {
				payload := data[segStart+len(xmpSig) : segEnd]
				if p := ybitmap.ParseGPano(payload); p != nil {
					return p
				}
			}
			if marker == 0xDA { // start of scan: no more markers follow
				break
			}
			pos = segEnd
			continue
		}
		pos += 2
	}
	return nil
}

// ExifOrientation parses the Exif IFD0 orientation tag (0x0112) from an
// Exif APP1 segment, if present, returning 0 if none was found. The core
// does not auto-rotate based on this value; it is exposed for callers to
// act on.
func ExifOrientation(data []byte) int {
	exifSig := []byte("Exif\x00\x00")
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		if marker == 0xD8 {
			pos += 2
			continue
		}
		if marker < 0xD0 || marker > 0xD9 {
			segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
			segStart := pos + 4
			segEnd := pos + 2 + segLen
			if segEnd > len(data) || segEnd < segStart {
				break
			}
			if marker == app1Marker && bytes.HasPrefix(data[segStart:segEnd], exifSig) {
				return parseOrientation(data[segStart+len(exifSig) : segEnd])
			}
			if marker == 0xDA {
				break
			}
			pos = segEnd
			continue
		}
		pos += 2
	}
	return 0
}

func parseOrientation(tiff []byte) int {
	if len(tiff) < 8 {
		return 0
	}
	var bo binary.ByteOrder
	switch {
	case bytes.HasPrefix(tiff, []byte("II")):
		bo = binary.LittleEndian
	case bytes.HasPrefix(tiff, []byte("MM")):
		bo = binary.BigEndian
	default:
		return 0
	}
	ifdOffset := bo.Uint32(tiff[4:8])
	if int(ifdOffset)+2 > len(tiff) {
		return 0
	}
	count := bo.Uint16(tiff[ifdOffset : ifdOffset+2])
	entryStart := ifdOffset + 2
	for i := 0; i < int(count); i++ {
		off := int(entryStart) + i*12
		if off+12 > len(tiff) {
			break
		}
		tag := bo.Uint16(tiff[off : off+2])
		if tag == 0x0112 {
			return int(bo.Uint16(tiff[off+8 : off+10]))
		}
	}
	return 0
}
