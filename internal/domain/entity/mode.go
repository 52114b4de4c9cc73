package entity

// Mode экран станции, активный в данный момент
type Mode string

const (
	ModeMenu        Mode = "menu"        // Главное меню
	ModeDetection   Mode = "detection"   // Поиск целевых областей и решение по триггеру
	ModeCalibration Mode = "calibration" // Живой предпросмотр камеры
	ModeProduction  Mode = "production"  // Имитация производственного цикла
)

// MenuOption пункт главного меню
type MenuOption struct {
	Name string // Подпись пункта
	Icon string // Идентификатор иконки
	Mode Mode   // Режим, в который ведёт пункт
}

// DefaultMenu возвращает пункты меню в порядке отображения
func DefaultMenu() []MenuOption {
	return []MenuOption{
		{Name: "Detection", Icon: "detection", Mode: ModeDetection},
		{Name: "Calibration", Icon: "calibration", Mode: ModeCalibration},
		{Name: "Production", Icon: "production", Mode: ModeProduction},
	}
}

// ButtonEvent нажатие одной из трёх кнопок оператора.
// Нулевое значение означает отсутствие события.
type ButtonEvent int

const (
	ButtonPrevious ButtonEvent = iota + 1 // Вверх / назад
	ButtonNext                            // Вниз
	ButtonConfirm                         // Выбор
)

func (e ButtonEvent) String() string {
	switch e {
	case ButtonPrevious:
		return "previous"
	case ButtonNext:
		return "next"
	case ButtonConfirm:
		return "confirm"
	default:
		return "none"
	}
}
