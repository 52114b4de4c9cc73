package entity

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidFrame возвращается для кадра с несогласованными размерами.
var ErrInvalidFrame = errors.New("invalid frame")

// ColorEncoding порядок каналов в буфере кадра
type ColorEncoding int

const (
	EncodingRGB ColorEncoding = iota // R, G, B
	EncodingBGR                      // B, G, R (родной порядок OpenCV)
)

func (e ColorEncoding) String() string {
	if e == EncodingBGR {
		return "bgr"
	}
	return "rgb"
}

// Frame трёхканальный кадр камеры, строки упакованы подряд.
// Живёт одну итерацию цикла.
type Frame struct {
	Width    int
	Height   int
	Encoding ColorEncoding
	Pix      []byte // len == Width*Height*3
}

// NewFrame создаёт чёрный кадр заданного размера
func NewFrame(width, height int, enc ColorEncoding) *Frame {
	return &Frame{
		Width:    width,
		Height:   height,
		Encoding: enc,
		Pix:      make([]byte, width*height*3),
	}
}

// FrameFromImage копирует изображение в RGB кадр
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), EncodingRGB)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
	return f
}

// Validate проверяет согласованность размеров и буфера
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height*3 {
		return fmt.Errorf("%w: buffer has %d bytes, want %d", ErrInvalidFrame, len(f.Pix), f.Width*f.Height*3)
	}
	return nil
}

// RGB возвращает цвет пикселя независимо от порядка каналов
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	if f.Encoding == EncodingBGR {
		return f.Pix[i+2], f.Pix[i+1], f.Pix[i]
	}
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetRGB записывает цвет пикселя с учётом порядка каналов
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	i := (y*f.Width + x) * 3
	if f.Encoding == EncodingBGR {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
		return
	}
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// Image возвращает копию кадра в виде *image.RGBA
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			o := img.PixOffset(x, y)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = r, g, b, 0xff
		}
	}
	return img
}
