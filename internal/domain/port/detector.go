package port

import (
	"context"

	"inspection-station/internal/domain/entity"
)

// RegionDetector интерфейс конвейера поиска целевых областей
type RegionDetector interface {
	// Detect возвращает области кадра в порядке их обнаружения
	Detect(ctx context.Context, frame *entity.Frame) ([]entity.DetectedRegion, error)
}
