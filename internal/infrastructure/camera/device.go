//go:build gocv
// +build gocv

package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

// Device камера V4L, открытая через OpenCV. Кадры отдаются в порядке BGR.
type Device struct {
	id int

	mu  sync.Mutex
	vc  *gocv.VideoCapture
	cfg entity.CaptureConfig
}

// NewDevice создаёт камеру для устройства с номером id
func NewDevice(id int, cfg entity.CaptureConfig) *Device {
	return &Device{id: id, cfg: cfg}
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc != nil {
		return nil
	}
	vc, err := gocv.OpenVideoCapture(d.id)
	if err != nil {
		return fmt.Errorf("open video device %d: %w", d.id, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(d.cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(d.cfg.Height))
	d.vc = vc
	return nil
}

func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc == nil {
		return nil
	}
	err := d.vc.Close()
	d.vc = nil
	return err
}

func (d *Device) Configure(cfg entity.CaptureConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("configure %s: size must be positive", cfg)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc != nil {
		return ErrRunning
	}
	d.cfg = cfg
	return nil
}

func (d *Device) Config() entity.CaptureConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Capture читает кадр и приводит его к размеру конфигурации,
// если драйвер не поддержал запрошенное разрешение.
func (d *Device) Capture(ctx context.Context) (*entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc == nil {
		return nil, ErrNotStarted
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := d.vc.Read(&mat); !ok || mat.Empty() {
		return nil, errors.New("read frame: device returned no data")
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("read frame: want 3 channels, got %d", mat.Channels())
	}
	if mat.Cols() != d.cfg.Width || mat.Rows() != d.cfg.Height {
		gocv.Resize(mat, &mat, image.Pt(d.cfg.Width, d.cfg.Height), 0, 0, gocv.InterpolationLinear)
	}

	return &entity.Frame{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Encoding: entity.EncodingBGR,
		Pix:      mat.ToBytes(),
	}, nil
}

var _ port.Camera = (*Device)(nil)
