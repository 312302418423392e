package cart

import (
	"fmt"

	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
	domain "freshcart/internal/domain/cart"
)

var RemoveCmd = &cobra.Command{
	Use:   "remove <product>:<variant>",
	Short: "Убрать позицию из корзины",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		itemID := args[0]
		st := app.Store().State()
		if _, found := st.FindItem(itemID); !found {
			fmt.Printf("Позиции %s нет в корзине.\n", itemID)
			return nil
		}

		app.Store().RemoveItem(itemID)

		st = app.Store().State()
		fmt.Printf("✅ Позиция убрана. Осталось: %d, итог: %s\n", st.ItemCount, formatPrice(st.Total))

		flushSync(cmd, app)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <product>:<variant>",
	Short: "Изменить количество позиции",
	Long:  `Устанавливает количество позиции в абсолютное значение. Ноль убирает позицию.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		itemID := args[0]
		st := app.Store().State()
		if _, found := st.FindItem(itemID); !found {
			return fmt.Errorf("позиции %s нет в корзине", itemID)
		}

		app.Store().UpdateItem(itemID, updateQuantity)

		st = app.Store().State()
		if updateQuantity <= 0 {
			fmt.Printf("✅ Позиция убрана. Осталось: %d, итог: %s\n", st.ItemCount, formatPrice(st.Total))
		} else {
			fmt.Printf("✅ Количество изменено. Позиций: %d, итог: %s\n", st.ItemCount, formatPrice(st.Total))
		}

		flushSync(cmd, app)
		return nil
	},
}

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Опустошить корзину",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		st := app.Store().State()
		if len(st.Items) == 0 && st.SyncStatus == domain.SyncIdle {
			fmt.Println("Корзина уже пуста.")
			return nil
		}

		app.Store().ClearCart()
		fmt.Println("✅ Корзина опустошена.")

		flushSync(cmd, app)
		return nil
	},
}

var updateQuantity int

func init() {
	UpdateCmd.Flags().IntVar(&updateQuantity, "qty", 1, "новое количество")
	_ = UpdateCmd.MarkFlagRequired("qty")
}
