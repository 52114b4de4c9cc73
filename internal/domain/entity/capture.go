package entity

import "fmt"

// CaptureConfig конфигурация захвата камеры
type CaptureConfig struct {
	Name   string // preview, detection, calibration
	Width  int
	Height int
}

func (c CaptureConfig) String() string {
	return fmt.Sprintf("%s %dx%d", c.Name, c.Width, c.Height)
}

// HSVRange диапазон цвета в единицах OpenCV: H 0..179, S и V 0..255.
type HSVRange struct {
	Lower [3]uint8
	Upper [3]uint8
}

// Contains проверяет попадание значения в диапазон включительно
func (r HSVRange) Contains(h, s, v uint8) bool {
	return h >= r.Lower[0] && h <= r.Upper[0] &&
		s >= r.Lower[1] && s <= r.Upper[1] &&
		v >= r.Lower[2] && v <= r.Upper[2]
}
