package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
	domain "freshcart/internal/domain/cart"
)

var showStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизировать корзину с сервером",
	Long: `Принудительно отправляет текущий снимок корзины на сервер и
применяет его авторитетный ответ: живые цены, остатки, удаленные товары.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		if showStatus {
			return printStatus(app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация корзины ===")

	if !app.IsAuthenticated() {
		return fmt.Errorf("требуется аутентификация. Выполните: freshcart auth login")
	}

	syncCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fmt.Println("Проверка соединения с сервером...")
	if !app.RefreshOnline(syncCtx) {
		return fmt.Errorf("сервер недоступен")
	}

	start := time.Now()
	status, err := app.Sync(syncCtx)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	if status != domain.SyncIdle {
		return fmt.Errorf("синхронизация не завершена (статус %s)", status)
	}

	fmt.Println()
	fmt.Println("✅ Синхронизация завершена!")
	fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))

	st := app.Store().State()
	fmt.Printf("Позиций в корзине: %d, итог: %d.%02d ₽\n", st.ItemCount, st.Total/100, st.Total%100)

	return nil
}

func printStatus(app *client.App) error {
	st := app.Store().State()

	fmt.Println("=== Статус синхронизации ===")
	fmt.Printf("Статус:              %s\n", st.SyncStatus)
	fmt.Printf("Изменений в очереди: %d\n", len(st.SyncQueue))
	fmt.Printf("Неудачных попыток:   %d\n", st.RetryCount)
	if !st.LastUpdated.IsZero() {
		fmt.Printf("Последняя мутация:   %s\n", st.LastUpdated.Format(time.RFC3339))
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "показать локальный статус без обращения к серверу")
}
