//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"errors"

	"inspection-station/internal/domain/entity"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

type Device struct {
	id  int
	cfg entity.CaptureConfig
}

// NewDevice создаёт камеру-заглушку (без OpenCV).
func NewDevice(id int, cfg entity.CaptureConfig) *Device {
	return &Device{id: id, cfg: cfg}
}

// Start возвращает ошибку, если сборка без тега gocv.
func (d *Device) Start() error { return errNoGoCV }

func (d *Device) Stop() error { return nil }

// Configure возвращает ошибку, если сборка без тега gocv.
func (d *Device) Configure(cfg entity.CaptureConfig) error {
	_ = cfg
	return errNoGoCV
}

func (d *Device) Config() entity.CaptureConfig { return d.cfg }

// Capture возвращает ошибку, если сборка без тега gocv.
func (d *Device) Capture(ctx context.Context) (*entity.Frame, error) {
	_ = ctx
	return nil, errNoGoCV
}
