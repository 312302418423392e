package cmd

import (
	"freshcart/cmd/client/cmd/auth"
	"freshcart/cmd/client/cmd/cart"
	"freshcart/cmd/client/cmd/catalog"
	"freshcart/cmd/client/cmd/checkout"
	"freshcart/cmd/client/cmd/sync"
)

func init() {
	// Команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	// Команды работы с корзиной
	rootCmd.AddCommand(cart.CartCmd)
	cart.CartCmd.AddCommand(cart.AddCmd)
	cart.CartCmd.AddCommand(cart.RemoveCmd)
	cart.CartCmd.AddCommand(cart.UpdateCmd)
	cart.CartCmd.AddCommand(cart.ListCmd)
	cart.CartCmd.AddCommand(cart.ClearCmd)

	rootCmd.AddCommand(catalog.ProductsCmd)
	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(checkout.CheckoutCmd)
}
