// Package render собирает изображения экранов станции.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

var (
	background = color.RGBA{0x10, 0x10, 0x18, 0xff}
	foreground = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	muted      = color.RGBA{0x90, 0x90, 0x90, 0xff}
	boxColor   = color.RGBA{0x00, 0xff, 0x00, 0xff}
	dotColor   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	passColor  = color.RGBA{0x20, 0xc0, 0x40, 0xff}
	failColor  = color.RGBA{0xe0, 0x30, 0x30, 0xff}
)

const lineHeight = 14

// Renderer рисует экраны заданного размера
type Renderer struct {
	width  int
	height int
	invert bool // инвертировать превью калибровки
	face   font.Face
}

// New создаёт рендерер под экран width x height
func New(width, height int, invertCalibration bool) *Renderer {
	return &Renderer{width: width, height: height, invert: invertCalibration, face: basicfont.Face7x13}
}

// Menu список режимов, выбранный пункт залит светлым
func (r *Renderer) Menu(options []entity.MenuOption, selected int) image.Image {
	img := r.canvas()
	r.text(img, 10, 18, "VISION SYSTEM", foreground)

	top, rowH := 32, 36
	for i, opt := range options {
		box := image.Rect(10, top+i*rowH, r.width-10, top+i*rowH+rowH-6)
		label := fmt.Sprintf("%d. %s", i+1, opt.Name)
		if i == selected {
			fill(img, box, foreground)
			r.text(img, box.Min.X+8, box.Min.Y+19, label, background)
			continue
		}
		outline(img, box, muted)
		r.text(img, box.Min.X+8, box.Min.Y+19, label, foreground)
	}

	r.text(img, 10, r.height-8, "PREV/NEXT move  OK select", muted)
	return img
}

// Detection кадр с рамками областей, центрами, площадями и итогами решений.
// Рамки рисуются на полном кадре, текст уже на экране.
func (r *Renderer) Detection(view port.DetectionView) image.Image {
	var img *image.RGBA
	if view.Frame != nil && view.Frame.Validate() == nil {
		frame := view.Frame.Image()
		for _, reg := range view.Regions {
			outline(frame, reg.Bounds(), boxColor)
			cx, cy := reg.Center()
			fill(frame, image.Rect(cx-2, cy-2, cx+3, cy+3), dotColor)
			r.text(frame, reg.X, max(reg.Y-3, 12), fmt.Sprintf("%.0f", reg.Area), boxColor)
		}
		img = r.fit(frame)
	} else {
		img = r.canvas()
	}

	r.text(img, 5, 15, fmt.Sprintf("Regions: %d", len(view.Regions)), foreground)
	if view.Last != nil {
		col := failColor
		if view.Last.Result == entity.Pass {
			col = passColor
		}
		r.text(img, 5, 15+lineHeight, strings.ToUpper(string(view.Last.Result)), col)
	}
	r.text(img, 5, 15+2*lineHeight, fmt.Sprintf("OK %d  NG %d", view.Passed, view.Failed), foreground)
	r.text(img, 5, r.height-8, "Press Prev to return", foreground)
	return img
}

// Calibration превью камеры без разметки
func (r *Renderer) Calibration(frame *entity.Frame) image.Image {
	if frame == nil || frame.Validate() != nil {
		return r.canvas()
	}
	img := r.fit(frame.Image())
	if r.invert {
		img = effect.Invert(img)
	}
	r.text(img, 5, r.height-8, "Press Prev to return", foreground)
	return img
}

// Production прогресс цикла производства
func (r *Renderer) Production(cycle, total int) image.Image {
	img := r.canvas()
	r.text(img, 10, 18, "PRODUCTION", foreground)
	r.text(img, 10, 60, fmt.Sprintf("Units Produced: %d/%d", cycle, total), foreground)
	r.text(img, 10, 60+2*lineHeight, fmt.Sprintf("Quality: %d%%", Quality(cycle)), foreground)

	bar := image.Rect(10, 110, r.width-10, 126)
	outline(img, bar, muted)
	if total > 0 {
		done := bar.Min.X + (bar.Dx()*min(cycle, total))/total
		fill(img, image.Rect(bar.Min.X, bar.Min.Y, done, bar.Max.Y), passColor)
	}
	r.text(img, 10, r.height-8, "Press Prev to stop", muted)
	return img
}

// ProductionDone экран завершения производства
func (r *Renderer) ProductionDone(total int) image.Image {
	img := r.canvas()
	r.text(img, 10, 18, "PRODUCTION", foreground)
	r.text(img, 10, 60, "Production complete", passColor)
	r.text(img, 10, 60+2*lineHeight, fmt.Sprintf("Units Produced: %d", total), foreground)
	return img
}

// Quality условная метрика качества для экрана производства
func Quality(cycle int) int {
	return 95 - cycle%5
}

func (r *Renderer) canvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return img
}

// fit масштабирует изображение под экран
func (r *Renderer) fit(img image.Image) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == r.width && b.Dy() == r.height {
		if rgba, ok := img.(*image.RGBA); ok {
			return rgba
		}
	}
	resized := imaging.Resize(img, r.width, r.height, imaging.Linear)
	out := image.NewRGBA(resized.Bounds())
	draw.Draw(out, out.Bounds(), resized, image.Point{}, draw.Src)
	return out
}

func (r *Renderer) text(img draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func fill(img draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// outline рамка толщиной в один пиксель
func outline(img draw.Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), c)
	fill(img, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), c)
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), c)
	fill(img, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

var _ port.ViewRenderer = (*Renderer)(nil)
