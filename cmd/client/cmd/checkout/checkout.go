package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
)

var CheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Оформить заказ",
	Long: `Оформляет заказ из текущей корзины.

Перед оформлением корзина принудительно синхронизируется: заказ всегда
собирается из серверной копии с живыми ценами и остатками.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: freshcart auth login")
		}

		fmt.Println("=== Оформление заказа ===")

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		if !app.RefreshOnline(ctx) {
			return fmt.Errorf("сервер недоступен, оформление невозможно")
		}

		fmt.Println("Синхронизация корзины...")
		resp, err := app.Checkout(ctx)
		if err != nil {
			return fmt.Errorf("ошибка оформления: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Заказ оформлен!")
		fmt.Printf("Номер заказа: %s\n", resp.OrderID)
		fmt.Printf("Сумма:        %d.%02d ₽\n", resp.Total/100, resp.Total%100)

		return nil
	},
}
