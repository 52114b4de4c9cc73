package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

// Still камера, которая отдаёт один и тот же снимок из файла,
// масштабированный под текущую конфигурацию захвата.
type Still struct {
	path string

	mu      sync.Mutex
	src     image.Image
	cfg     entity.CaptureConfig
	frame   *entity.Frame
	running bool
}

// NewStill создаёт камеру-снимок. Файл читается при первом Start.
func NewStill(path string, cfg entity.CaptureConfig) *Still {
	return &Still{path: path, cfg: cfg}
}

// NewStillFromImage камера-снимок поверх готового изображения
func NewStillFromImage(img image.Image, cfg entity.CaptureConfig) *Still {
	return &Still{src: img, cfg: cfg}
}

func (s *Still) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.src == nil {
		img, err := imaging.Open(s.path)
		if err != nil {
			return fmt.Errorf("open still %s: %w", s.path, err)
		}
		s.src = img
	}
	if s.frame == nil {
		resized := imaging.Resize(s.src, s.cfg.Width, s.cfg.Height, imaging.Linear)
		s.frame = entity.FrameFromImage(resized)
	}
	s.running = true
	return nil
}

func (s *Still) Stop() error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return nil
}

func (s *Still) Configure(cfg entity.CaptureConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("configure %s: size must be positive", cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrRunning
	}
	s.cfg = cfg
	s.frame = nil
	return nil
}

func (s *Still) Config() entity.CaptureConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Capture возвращает копию кадра, вызывающий может её менять
func (s *Still) Capture(ctx context.Context) (*entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrNotStarted
	}
	f := *s.frame
	f.Pix = append([]byte(nil), s.frame.Pix...)
	return &f, nil
}

var _ port.Camera = (*Still)(nil)
