package studio

import (
	"bytes"
	"testing"
)

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantData string
		wantMIME string
	}{
		{"png", "data:image/png;base64,iVBORw0KGgo=", "iVBORw0KGgo=", "image/png"},
		{"webp", "data:image/webp;base64,UklGRg==", "UklGRg==", "image/webp"},
		{"synthetic mime", "data:application/x-test;base64,QUJD", "QUJD", "application/x-test"},
		{"no semicolon", "data:image/png,QUJD", "QUJD", DefaultImageMIMEType},
		{"empty mime", "data:;base64,QUJD", "QUJD", DefaultImageMIMEType},
		{"no comma", "garbage", "", DefaultImageMIMEType},
		{"empty", "", "", DefaultImageMIMEType},
		{"payload keeps later commas", "data:text/plain;base64,a,b", "a,b", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDataURI(tt.uri)
			if got.Data != tt.wantData {
				t.Errorf("Data = %q, want %q", got.Data, tt.wantData)
			}
			if got.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", got.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestEncodeDataURIRoundTrip(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	img := ParseDataURI(EncodeDataURI("image/png", raw))
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	got, err := img.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Bytes() = %v, want %v", got, raw)
	}
}

func TestInlineImageBytesInvalid(t *testing.T) {
	if _, err := (InlineImage{Data: "not base64!", MIMEType: "image/png"}).Bytes(); err == nil {
		t.Error("expected error for invalid base64 payload")
	}
}
