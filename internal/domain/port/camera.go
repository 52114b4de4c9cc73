package port

import (
	"context"

	"inspection-station/internal/domain/entity"
)

// Camera интерфейс камеры станции.
// Перед Configure камеру нужно остановить, после запустить снова.
type Camera interface {
	Start() error
	Stop() error
	Configure(cfg entity.CaptureConfig) error

	// Config возвращает текущую конфигурацию захвата
	Config() entity.CaptureConfig

	// Capture блокируется до получения кадра
	Capture(ctx context.Context) (*entity.Frame, error)
}
