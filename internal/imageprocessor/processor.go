package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Processor уменьшает загруженные изображения до заданных границ
type Processor struct {
	quality   int // JPEG quality (1-100)
	maxWidth  int
	maxHeight int
}

// NewProcessor creates a new image processor
func NewProcessor(quality, maxWidth, maxHeight int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality:   quality,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

// Fit уменьшает изображение, если оно больше границ, сохраняя пропорции и формат.
// GIF возвращается как есть, чтобы не терять анимацию.
// Второе значение сообщает, было ли изображение изменено.
func (p *Processor) Fit(data []byte, mimeType string) ([]byte, bool, error) {
	if mimeType == "image/gif" {
		return data, false, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= p.maxWidth && bounds.Dy() <= p.maxHeight {
		return data, false, nil
	}

	resized := p.resize(img, p.maxWidth, p.maxHeight)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, false, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, false, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("unsupported image format: %s", format)
	}

	return buf.Bytes(), true, nil
}

// resize resizes an image maintaining aspect ratio
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
