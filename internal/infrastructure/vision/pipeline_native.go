//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"inspection-station/internal/domain/entity"
)

// Detect находит внешние области целевого цвета без OpenCV.
// Области нумеруются построчным обходом: сверху вниз, слева направо.
// Площадь считается как число пикселей области.
func (p *Pipeline) Detect(ctx context.Context, frame *entity.Frame) ([]entity.DetectedRegion, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	m := p.segment(frame)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m = m.dilate(p.cfg.KernelSize).erode(p.cfg.KernelSize)

	var regions []entity.DetectedRegion
	for _, c := range m.components() {
		area := float64(c.area)
		if !p.keep(area) {
			continue
		}
		regions = append(regions, entity.DetectedRegion{
			X:      c.minX,
			Y:      c.minY,
			Width:  c.maxX - c.minX + 1,
			Height: c.maxY - c.minY + 1,
			Area:   area,
		})
	}
	return regions, nil
}

// segment строит маску пикселей, попавших в целевой диапазон
func (p *Pipeline) segment(f *entity.Frame) *mask {
	m := newMask(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			h, s, v := hsv8(f.RGB(x, y))
			if p.cfg.Target.Contains(h, s, v) {
				m.px[y*m.w+x] = true
			}
		}
	}
	return m
}

// hsv8 переводит цвет в HSV в шкалах OpenCV для 8-битных изображений
func hsv8(r, g, b uint8) (h, s, v uint8) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	hh, ss, vv := c.Hsv()
	return uint8(math.Round(hh/2)) % 180, uint8(math.Round(ss * 255)), uint8(math.Round(vv * 255))
}
