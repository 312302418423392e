package client

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"freshcart/internal/domain/cart"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	// Одна строка — один снимок корзины
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cart_snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			saved_at DATETIME NOT NULL
		);
	`)

	return err
}

func (s *SQLiteStorage) SaveCart(state *cart.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("ошибка сериализации снимка: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO cart_snapshot (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ошибка сохранения снимка: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) LoadCart() (*cart.CartState, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM cart_snapshot WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		// Проблема чтения равнозначна отсутствию корзины
		return nil, nil
	}

	var state cart.CartState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		// Поврежденный снимок — считаем, что прежней корзины нет
		return nil, nil
	}

	return &state, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
