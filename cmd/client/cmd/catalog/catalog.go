package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
)

var ProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Показать каталог товаров",
	Long:  `Запрашивает у сервера каталог с фасовками, ценами и остатками.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("приложение не инициализировано")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		products, err := app.Products(ctx)
		if err != nil {
			return fmt.Errorf("каталог недоступен: %w", err)
		}

		fmt.Println("=== Каталог ===")
		fmt.Println()

		if len(products) == 0 {
			fmt.Println("Каталог пуст.")
			return nil
		}

		for _, p := range products {
			color.Cyan("%s  [%s]", p.Product.Name, p.Product.ID)
			if p.Product.Description != "" {
				fmt.Printf("  %s\n", p.Product.Description)
			}
			for _, v := range p.Variants {
				mark := " "
				if !v.Active || v.Stock <= 0 {
					mark = "✗"
				}
				fmt.Printf("  %s %-12s %g %-9s %d.%02d ₽  (остаток: %d)\n",
					mark, v.ID, v.UnitAmount, v.UnitKind, v.Price/100, v.Price%100, v.Stock)
			}
			fmt.Println()
		}

		return nil
	},
}
