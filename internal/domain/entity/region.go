package entity

import "image"

// DetectedRegion представляет одну связную область маски, пережившую фильтр площади
type DetectedRegion struct {
	X      int     // координата X левого верхнего угла
	Y      int     // координата Y левого верхнего угла
	Width  int     // ширина ограничивающего прямоугольника
	Height int     // высота ограничивающего прямоугольника
	Area   float64 // площадь области в пикселях
}

// Center возвращает центр ограничивающего прямоугольника
func (r DetectedRegion) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Bounds возвращает ограничивающий прямоугольник области
func (r DetectedRegion) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}
