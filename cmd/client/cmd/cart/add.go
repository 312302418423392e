package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
	domain "freshcart/internal/domain/cart"
)

var (
	addProductID string
	addVariantID string
	addQuantity  int
	addName      string
	addPrice     int64
	addUnitKind  string
	addUnitAmt   float64
	addStock     int
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить товар в корзину",
	Long: `Добавляет фасовку товара в корзину. Повторное добавление той же
фасовки увеличивает количество.

Название и цена подтягиваются из каталога. Если сервер недоступен,
их можно передать флагами --name и --price.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		if addQuantity <= 0 {
			return fmt.Errorf("количество должно быть положительным")
		}

		params, err := resolveItem(cmd.Context(), app)
		if err != nil {
			return err
		}

		app.Store().AddItem(params)

		st := app.Store().State()
		fmt.Printf("✅ «%s» добавлен в корзину. Позиций: %d, итог: %s\n",
			params.Name, st.ItemCount, formatPrice(st.Total))

		flushSync(cmd, app)
		return nil
	},
}

// resolveItem собирает параметры позиции: каталог, при его недоступности — флаги
func resolveItem(ctx context.Context, app *client.App) (client.AddItemParams, error) {
	params := client.AddItemParams{
		ProductID: addProductID,
		VariantID: addVariantID,
		Quantity:  addQuantity,
		Name:      addName,
		Price:     addPrice,
		Unit:      domain.Unit{Kind: domain.UnitKind(addUnitKind), Amount: addUnitAmt},
		MaxStock:  addStock,
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	products, err := app.Products(lookupCtx)
	if err != nil {
		if addName == "" || addPrice <= 0 {
			return params, fmt.Errorf("каталог недоступен, укажите --name и --price: %w", err)
		}
		return params, nil
	}

	for _, p := range products {
		if p.Product.ID != addProductID {
			continue
		}
		for _, v := range p.Variants {
			if v.ID != addVariantID {
				continue
			}
			if !v.Active || v.Stock <= 0 {
				return params, fmt.Errorf("фасовка %s товара «%s» сейчас недоступна", v.ID, p.Product.Name)
			}
			params.Name = p.Product.Name
			params.Thumbnail = p.Product.Thumbnail
			params.Price = v.Price
			params.Unit = domain.Unit{Kind: domain.UnitKind(v.UnitKind), Amount: v.UnitAmount}
			params.MaxStock = v.Stock
			return params, nil
		}
		return params, fmt.Errorf("у товара «%s» нет фасовки %s", p.Product.Name, addVariantID)
	}

	return params, fmt.Errorf("товар %s не найден в каталоге", addProductID)
}

func init() {
	AddCmd.Flags().StringVar(&addProductID, "product", "", "идентификатор товара")
	AddCmd.Flags().StringVar(&addVariantID, "variant", "", "идентификатор фасовки")
	AddCmd.Flags().IntVar(&addQuantity, "qty", 1, "количество")
	AddCmd.Flags().StringVar(&addName, "name", "", "название (для офлайн-добавления)")
	AddCmd.Flags().Int64Var(&addPrice, "price", 0, "цена в копейках (для офлайн-добавления)")
	AddCmd.Flags().StringVar(&addUnitKind, "unit", string(domain.UnitPiece), "единица измерения фасовки")
	AddCmd.Flags().Float64Var(&addUnitAmt, "amount", 1, "объем фасовки")
	AddCmd.Flags().IntVar(&addStock, "stock", 0, "известный остаток (для офлайн-добавления)")

	_ = AddCmd.MarkFlagRequired("product")
	_ = AddCmd.MarkFlagRequired("variant")
}
