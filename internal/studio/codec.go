package studio

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultImageMIMEType is assumed when a data URI header cannot be parsed.
const DefaultImageMIMEType = "image/jpeg"

// InlineImage is the provider transport pair for a locally held image: the
// base64 payload exactly as it appeared in the data URI, plus its MIME type.
type InlineImage struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// ParseDataURI splits a "data:<mime>;base64,<payload>" URI into its payload
// and MIME type. It never fails: a header without a recognizable MIME type
// yields DefaultImageMIMEType, and a URI without a comma yields an empty
// payload.
func ParseDataURI(uri string) InlineImage {
	header, payload, _ := strings.Cut(uri, ",")

	mimeType := ""
	if i := strings.Index(header, ":"); i >= 0 {
		rest := header[i+1:]
		if j := strings.Index(rest, ";"); j >= 0 {
			mimeType = rest[:j]
		}
	}
	if mimeType == "" {
		mimeType = DefaultImageMIMEType
	}

	return InlineImage{Data: payload, MIMEType: mimeType}
}

// Bytes decodes the base64 payload.
func (img InlineImage) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", img.MIMEType, err)
	}
	return raw, nil
}

// EncodeDataURI renders raw bytes as a base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
