package entity

import (
	"time"

	"github.com/google/uuid"
)

// Classification итог проверки по количеству найденных областей.
type Classification string

const (
	Pass Classification = "pass" // количество совпало с ожидаемым
	Fail Classification = "fail" // любое другое количество
)

// Classify сравнивает число областей с ожидаемым. Сравнивается только количество.
func Classify(regionCount, expected int) Classification {
	if regionCount == expected {
		return Pass
	}
	return Fail
}

// Decision решение, зафиксированное по одному фронту триггера.
type Decision struct {
	ID          uuid.UUID      // идентификатор для связи записей лога
	Result      Classification // итог
	RegionCount int            // сколько областей было в кадре
	At          time.Time      // момент фиксации
}

// NewDecision создаёт решение для заданного числа областей.
func NewDecision(regionCount, expected int, at time.Time) *Decision {
	return &Decision{
		ID:          uuid.New(),
		Result:      Classify(regionCount, expected),
		RegionCount: regionCount,
		At:          at,
	}
}

// Signal дискретный выход станции.
type Signal string

const (
	SignalControl Signal = "control" // линия pass/fail для внешнего оборудования
	SignalGreen   Signal = "green"   // зелёный индикатор
	SignalRed     Signal = "red"     // красный индикатор
)

// Level уровень дискретной линии.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// OutputLevels набор уровней всех трёх выходов.
type OutputLevels struct {
	Control Level
	Green   Level
	Red     Level
}

// SafeLevels все выходы в низком уровне.
var SafeLevels = OutputLevels{}

// LevelsFor возвращает уровни выходов для результата проверки.
func LevelsFor(c Classification) OutputLevels {
	if c == Pass {
		return OutputLevels{Control: Low, Green: High, Red: Low}
	}
	return OutputLevels{Control: High, Green: Low, Red: High}
}
