package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"freshcart/cmd/client/cmd/types"
	"freshcart/internal/app/client"
	"freshcart/internal/app/client/config"
	"freshcart/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "freshcart",
	Short: "FreshCart - корзина продуктового магазина с офлайн-синхронизацией",
	Long: `FreshCart — клиент продуктового магазина.

Корзина живет локально и доступна без сети: добавление, изменение и
удаление позиций работают мгновенно, а изменения доставляются на сервер
в фоне, как только появляется возможность.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	defer func() {
		if app != nil {
			_ = app.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.New()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if debug {
		cfg.Env = "local"
	}

	log = logger.New(cfg.Env)
	app = client.New(cfg, log)

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера FreshCart")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")

	// Команды добавляются в init() соответствующих файлов
}
