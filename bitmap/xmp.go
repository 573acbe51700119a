package bitmap

import (
	"strconv"
	"strings"
)

// gpanoFields lists the XMP GPano attribute names this package recognizes.
var gpanoFields = []string{
	"GPano:UsePanoramaViewer",
	"GPano:ProjectionType",
	"GPano:CroppedAreaImageWidthPixels",
	"GPano:CroppedAreaImageHeightPixels",
	"GPano:FullPanoWidthPixels",
	"GPano:FullPanoHeightPixels",
	"GPano:CroppedAreaLeftPixels",
	"GPano:CroppedAreaTopPixels",
}

// ParseGPano scans a raw Adobe XMP packet (as embedded in a JPEG APP1
// segment) for the GPano: namespace fields and returns them, or nil if
// none are present. This is a flat attribute scan, not a general XMP/RDF
// parser: a color-managed, fully general metadata pipeline is out of
// scope, but the eight flat GPano fields are worth surfacing.
func ParseGPano(xmp []byte) *XMPPano {
	text := string(xmp)
	values := make(map[string]string, len(gpanoFields))
	for _, field := range gpanoFields {
		if v, ok := extractAttr(text, field); ok {
			values[field] = v
		}
	}
	if len(values) == 0 {
		return nil
	}

	p := &XMPPano{}
	if v, ok := values["GPano:UsePanoramaViewer"]; ok {
		p.UsePanoramaViewer = strings.EqualFold(v, "True")
	}
	if v, ok := values["GPano:ProjectionType"]; ok {
		if strings.EqualFold(v, "equirectangular") {
			p.ProjectionType = "equirectangular"
		}
	}
	p.CroppedAreaImageWidthPixels = atoiOr(values["GPano:CroppedAreaImageWidthPixels"], 0)
	p.CroppedAreaImageHeightPixels = atoiOr(values["GPano:CroppedAreaImageHeightPixels"], 0)
	p.FullPanoWidthPixels = atoiOr(values["GPano:FullPanoWidthPixels"], 0)
	p.FullPanoHeightPixels = atoiOr(values["GPano:FullPanoHeightPixels"], 0)
	p.CroppedAreaLeftPixels = atoiOr(values["GPano:CroppedAreaLeftPixels"], 0)
	p.CroppedAreaTopPixels = atoiOr(values["GPano:CroppedAreaTopPixels"], 0)
	return p
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// extractAttr finds `name="value"` or `name>value</name`-style occurrences
// of an RDF attribute/element in raw XMP text.
func extractAttr(text, name string) (string, bool) {
	if v, ok := extractQuoted(text, name+`="`); ok {
		return v, true
	}
	if v, ok := extractQuoted(text, name+`>`); ok {
		if end := strings.Index(v, "<"); end >= 0 {
			return v[:end], true
		}
	}
	return "", false
}

func extractQuoted(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	if strings.HasSuffix(marker, `"`) {
		end := strings.IndexByte(rest, '"')
		if end < 0 {
			return "", false
		}
		return rest[:end], true
	}
	return rest, true
}
