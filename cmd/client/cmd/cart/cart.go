package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freshcart/internal/app/client"
	domain "freshcart/internal/domain/cart"
)

// CartCmd - родительская команда для всех операций с корзиной
var CartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Управление корзиной",
	Long: `Добавление, изменение и удаление позиций.

Все операции применяются к локальной корзине мгновенно и работают без
сети. Доставка изменений на сервер происходит в фоне.`,
}

// formatPrice печатает цену из минорных единиц
func formatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d ₽", minor/100, minor%100)
}

// flushSync дожидается фоновой синхронизации, чтобы изменения не пропали
// при завершении процесса. Неуспех не считается ошибкой команды: корзина
// уже сохранена локально и уйдет следующим запуском.
func flushSync(cmd *cobra.Command, app *client.App) {
	if !app.IsAuthenticated() {
		fmt.Println("ℹ️  Изменения сохранены локально. Войдите, чтобы синхронизировать: freshcart auth login")
		return
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if !app.RefreshOnline(ctx) {
		fmt.Println("⚠️  Сервер недоступен, изменения будут отправлены позже")
		return
	}

	status, err := app.Sync(ctx)
	if err != nil || status != domain.SyncIdle {
		fmt.Println("⚠️  Синхронизация не завершена, изменения будут отправлены позже")
		return
	}

	fmt.Println("✓ Корзина синхронизирована")
}
