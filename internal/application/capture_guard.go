package app

import (
	"log/slog"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

// CaptureGuard держит камеру в конфигурации режима и возвращает прежнюю при Release.
type CaptureGuard struct {
	camera   port.Camera
	prior    entity.CaptureConfig
	log      *slog.Logger
	released bool
}

// AcquireCapture перенастраивает камеру под режим.
// Ошибки только логируются: режим продолжает работу с тем, что получилось.
func AcquireCapture(camera port.Camera, cfg entity.CaptureConfig, logger *slog.Logger) *CaptureGuard {
	g := &CaptureGuard{
		camera: camera,
		prior:  camera.Config(),
		log:    logger,
	}
	g.reconfigure(cfg, 0)
	return g
}

// Release восстанавливает конфигурацию, бывшую до Acquire. Повторный вызов ничего не делает.
func (g *CaptureGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.reconfigure(g.prior, 1)
}

func (g *CaptureGuard) reconfigure(cfg entity.CaptureConfig, retries int) {
	if err := g.camera.Stop(); err != nil {
		g.log.Warn("camera stop failed", "target", cfg.String(), "error", err)
	}

	for attempt := 0; attempt <= retries; attempt++ {
		err := g.camera.Configure(cfg)
		if err == nil {
			break
		}
		g.log.Warn("camera configure failed", "target", cfg.String(), "attempt", attempt+1, "error", err)
	}

	if err := g.camera.Start(); err != nil {
		g.log.Warn("camera start failed", "target", cfg.String(), "error", err)
	}
}
