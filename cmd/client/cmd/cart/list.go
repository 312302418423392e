package cart

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
	domain "freshcart/internal/domain/cart"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать корзину",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		st := app.Store().State()

		fmt.Println("=== Корзина ===")
		fmt.Println()

		if len(st.Items) == 0 {
			fmt.Println("Корзина пуста.")
			return nil
		}

		for _, it := range st.Items {
			fmt.Printf("%-24s %s  %g %s × %d = %s\n",
				it.Name, it.ID, it.Unit.Amount, it.Unit.Kind, it.Quantity,
				formatPrice(it.Subtotal()))
		}

		fmt.Println()
		fmt.Printf("Позиций: %d\n", st.ItemCount)
		fmt.Printf("Итого:   %s\n", formatPrice(st.Total))

		switch st.SyncStatus {
		case domain.SyncIdle:
			if len(st.SyncQueue) == 0 {
				color.Green("Синхронизировано")
			} else {
				color.Yellow("Ожидает синхронизации (%d изменений)", len(st.SyncQueue))
			}
		case domain.SyncSyncing:
			color.Cyan("Синхронизация...")
		case domain.SyncRetrying:
			color.Yellow("Повторная попытка синхронизации (попытка %d)", st.RetryCount)
		case domain.SyncError:
			color.Red("Ошибка синхронизации, выполните: freshcart sync")
		}

		return nil
	},
}
