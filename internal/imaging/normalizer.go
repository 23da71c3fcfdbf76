// Package imaging converts arbitrary input imagery into a bounded,
// device-safe JPEG form. The e-ink panel needs bounded dimensions and
// benefits from a grayscale, contrast-boosted encode for map imagery.
package imaging

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

const (
	// MaxDimension bounds generic images on their largest side. The box is
	// square so both portrait (540x960) and landscape (960x540) captures
	// keep their natural orientation.
	MaxDimension = 960

	genericQuality = 85
	// Map imagery is flattened to grayscale first, which lowers entropy
	// enough to afford a higher encode quality.
	mapQuality = 90

	// Contrast boost applied to map imagery, in percent over neutral.
	mapContrastBoost = 20
)

// ErrUnsupportedFormat indicates the input bytes are not in any decodable
// image format. Sending them anyway requires the force-raw override.
var ErrUnsupportedFormat = errors.New("unsupported image format (use --force-raw to send the bytes unprocessed)")

// Normalized is an image ready for upload to the device.
type Normalized struct {
	Data     []byte
	MIMEType string
	// Processed is false when the original bytes were passed through raw.
	Processed bool
}

// Normalizer runs the decode/resize/encode pipeline.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeGeneric contain-fits an arbitrary image into the MaxDimension
// box, preserving aspect ratio and never upscaling or padding, then
// encodes it as JPEG. Decodable input is always normalized; forceRaw only
// permits passing undecodable bytes through unchanged. A failure past
// decoding degrades to raw passthrough with a warning.
func (n *Normalizer) NormalizeGeneric(data []byte, forceRaw bool) (*Normalized, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			if !forceRaw {
				return nil, ErrUnsupportedFormat
			}
			n.logger.Warn("Sending undecodable bytes raw (device expects bounded dimensions)")
			return rawPassthrough(data), nil
		}
		n.logger.Warn("Image decode failed, sending raw bytes", zap.Error(err))
		return rawPassthrough(data), nil
	}

	bounds := img.Bounds()
	n.logger.Debug("Processing image",
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Int("max_dimension", MaxDimension))

	// Fit never upscales: images already inside the box keep their size.
	fitted := imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)

	return n.encode(fitted, genericQuality, data)
}

// NormalizeMap resizes map imagery to the device's exact screen geometry,
// flattens it to grayscale, boosts contrast, and encodes it as JPEG. Any
// processing failure degrades to raw passthrough with a warning.
func (n *Normalizer) NormalizeMap(data []byte, geom models.ScreenGeometry) (*Normalized, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		n.logger.Warn("Map decode failed, sending raw bytes", zap.Error(err))
		return rawPassthrough(data), nil
	}

	bounds := img.Bounds()
	if bounds.Dx() != geom.Width || bounds.Dy() != geom.Height {
		n.logger.Debug("Resizing map to device geometry",
			zap.Int("from_width", bounds.Dx()),
			zap.Int("from_height", bounds.Dy()),
			zap.Int("to_width", geom.Width),
			zap.Int("to_height", geom.Height))
		img = imaging.Resize(img, geom.Width, geom.Height, imaging.Lanczos)
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, mapContrastBoost)

	return n.encode(img, mapQuality, data)
}

func (n *Normalizer) encode(img image.Image, quality int, original []byte) (*Normalized, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		n.logger.Warn("JPEG encode failed, sending raw bytes", zap.Error(err))
		return rawPassthrough(original), nil
	}
	return &Normalized{
		Data:      buf.Bytes(),
		MIMEType:  "image/jpeg",
		Processed: true,
	}, nil
}

func rawPassthrough(data []byte) *Normalized {
	return &Normalized{
		Data:     data,
		MIMEType: "application/octet-stream",
	}
}
