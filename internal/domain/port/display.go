package port

import (
	"image"

	"inspection-station/internal/domain/entity"
)

// Display интерфейс экрана: принимает только полный кадр фиксированного размера
type Display interface {
	Show(img image.Image) error
}

// DetectionView данные для экрана режима Detection
type DetectionView struct {
	Frame   *entity.Frame
	Regions []entity.DetectedRegion
	Last    *entity.Decision // последнее решение, nil если триггера ещё не было
	Passed  int
	Failed  int
}

// ViewRenderer собирает изображения экранов станции
type ViewRenderer interface {
	Menu(options []entity.MenuOption, selected int) image.Image
	Detection(view DetectionView) image.Image
	Calibration(frame *entity.Frame) image.Image
	Production(cycle, total int) image.Image
	ProductionDone(total int) image.Image
}
