// Package vision ищет на кадре области целевого цвета.
//
// С тегом сборки gocv конвейер работает через OpenCV, без него на чистом Go.
// Оба варианта выполняют одни и те же шаги: HSV, маска по диапазону,
// одно расширение и одно сужение квадратным ядром, внешние связные области,
// отсечение по площади.
package vision

import (
	"fmt"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

// Config параметры конвейера
type Config struct {
	Target     entity.HSVRange // диапазон цвета в единицах OpenCV
	KernelSize int             // сторона квадратного ядра морфологии
	MinArea    float64         // области с площадью не больше этой отбрасываются
}

// DefaultConfig жёлтый диапазон, ядро 5x5, минимальная площадь 50
func DefaultConfig() Config {
	return Config{
		Target: entity.HSVRange{
			Lower: [3]uint8{20, 100, 100},
			Upper: [3]uint8{30, 255, 255},
		},
		KernelSize: 5,
		MinArea:    50,
	}
}

// Validate проверяет параметры
func (c Config) Validate() error {
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return fmt.Errorf("kernel size must be a positive odd number, got %d", c.KernelSize)
	}
	if c.MinArea < 0 {
		return fmt.Errorf("min area must not be negative, got %v", c.MinArea)
	}
	for i := 0; i < 3; i++ {
		if c.Target.Lower[i] > c.Target.Upper[i] {
			return fmt.Errorf("target range channel %d: lower %d above upper %d", i, c.Target.Lower[i], c.Target.Upper[i])
		}
	}
	return nil
}

// Pipeline конвейер поиска областей
type Pipeline struct {
	cfg Config
}

// NewPipeline создаёт конвейер с проверенной конфигурацией
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config возвращает параметры конвейера
func (p *Pipeline) Config() Config {
	return p.cfg
}

func (p *Pipeline) keep(area float64) bool {
	return area > p.cfg.MinArea
}

var _ port.RegionDetector = (*Pipeline)(nil)
