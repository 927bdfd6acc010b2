package mimetypes

import (
	"mime"
	"path/filepath"
	"strings"
)

type MIME string

const (
	Unknown     MIME = "unknown"
	TextPlain   MIME = "text/plain"
	OctetStream MIME = "application/octet-stream"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"
)

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// IsImage tells whether an attachment of this content type is rendered inline.
func IsImage(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// Resolve keeps the sniffed content type unless sniffing gave up,
// in which case the file extension decides.
func Resolve(sniffed, fileName string) string {
	if _, generic := Matches(sniffed, OctetStream); !generic && sniffed != "" {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		return byExt
	}
	return string(OctetStream)
}
