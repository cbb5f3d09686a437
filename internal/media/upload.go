// Package media turns local image files into upload slots and writes
// generated results back to disk.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// MaxDimension is the longest edge an upload is sent at. Larger images are
// downscaled before encoding.
const MaxDimension = 2048

// MaxUploadBytes rejects files the provider would refuse anyway.
const MaxUploadBytes = 20 << 20

// SupportedImageExtensions maps upload extensions to MIME types.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Upload is a local image prepared for an image slot.
type Upload struct {
	Name     string
	MIMEType string
	Width    int
	Height   int
	Resized  bool
	Camera   string
	TakenAt  time.Time
	DataURI  string
}

// MIMETypeFor returns the MIME type for an image path by extension.
func MIMETypeFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := SupportedImageExtensions[ext]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported image extension: %q", ext)
}

// LoadImage reads an image file into a data URI, downscaling it when its
// longest edge exceeds MaxDimension. Formats Go cannot decode (HEIC) are
// passed through unchanged.
func LoadImage(path string) (*Upload, error) {
	mimeType, err := MIMETypeFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("image %s is %d bytes, limit is %d", filepath.Base(path), len(data), MaxUploadBytes)
	}

	up := &Upload{Name: filepath.Base(path), MIMEType: mimeType}
	readExif(path, up)

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		up.Width, up.Height = cfg.Width, cfg.Height
		if max(cfg.Width, cfg.Height) > MaxDimension {
			resized, outMIME, err := downscale(data, MaxDimension)
			if err != nil {
				log.Warn().Err(err).Str("file", up.Name).Msg("Downscale failed, sending original")
			} else {
				data, up.MIMEType, up.Resized = resized, outMIME, true
			}
		}
	} else {
		log.Debug().Err(err).Str("file", up.Name).Msg("Image not decodable, sending as-is")
	}

	up.DataURI = studio.EncodeDataURI(up.MIMEType, data)
	log.Info().
		Str("file", up.Name).
		Str("mime_type", up.MIMEType).
		Int("width", up.Width).
		Int("height", up.Height).
		Bool("resized", up.Resized).
		Str("camera", up.Camera).
		Msg("Image loaded")
	return up, nil
}

// downscale shrinks an image so its longest edge is maxEdge, keeping the
// aspect ratio. PNG and GIF sources stay lossless as PNG; everything else
// becomes JPEG.
func downscale(data []byte, maxEdge int) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png", "gif":
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// readExif fills camera and capture time when the file carries EXIF.
func readExif(path string, up *Upload) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	x, err := imagemeta.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("file", up.Name).Msg("No EXIF metadata")
		return
	}
	up.Camera = strings.TrimSpace(strings.TrimSpace(x.Make) + " " + strings.TrimSpace(x.Model))
	up.TakenAt = x.DateTimeOriginal()
}
