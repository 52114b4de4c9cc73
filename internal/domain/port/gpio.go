package port

import "inspection-station/internal/domain/entity"

// OutputDriver интерфейс дискретных выходов станции
type OutputDriver interface {
	// SetOutput выставляет уровень одного выхода
	SetOutput(signal entity.Signal, level entity.Level) error
}

// InputReader интерфейс прямого чтения входных линий
type InputReader interface {
	// ReadDigitalInput возвращает true, если на линии высокий уровень
	ReadDigitalInput(pin int) (bool, error)
}
