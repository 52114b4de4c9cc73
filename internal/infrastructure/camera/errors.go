// Package camera источники кадров для станции: неподвижный снимок и устройство V4L через OpenCV.
package camera

import "errors"

var (
	// ErrNotStarted захват у остановленной камеры
	ErrNotStarted = errors.New("camera not started")
	// ErrRunning смена конфигурации у запущенной камеры
	ErrRunning = errors.New("camera is running, stop it before configure")
)
