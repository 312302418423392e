package client

import "github.com/fatih/color"

// Level уровень пользовательского уведомления
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

// Notifier приемник пользовательских уведомлений о расхождениях корзины
// с сервером. Движок отправляет сообщение и не ждет ответа.
type Notifier interface {
	Notify(level Level, message string)
}

// ConsoleNotifier выводит уведомления в терминал
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (*ConsoleNotifier) Notify(level Level, message string) {
	switch level {
	case LevelWarn:
		color.Yellow("⚠️  %s", message)
	default:
		color.Cyan("ℹ️  %s", message)
	}
}

// NopNotifier глушит уведомления (тесты)
type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}
