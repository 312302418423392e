package client

import "time"

// Timer отложенная задача, которую можно отменить до срабатывания
type Timer interface {
	Stop() bool
}

// Scheduler абстракция "выполнить через задержку". Вынесена за интерфейс,
// чтобы повторы и окно затишья проверялись в тестах фальшивыми часами,
// а не реальным ожиданием.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewScheduler возвращает планировщик на системных таймерах
func NewScheduler() Scheduler {
	return realScheduler{}
}
