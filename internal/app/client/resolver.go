package client

import (
	"fmt"

	"golang.org/x/exp/slog"

	"freshcart/internal/domain/cart"
)

// Resolver сводит локальную корзину с авторитетным ответом сервера.
// Правило одно: по отправленным позициям сервер всегда прав. Позиции,
// добавленные пока обмен был в полете (их нет в sent), остаются нетронутыми
// и уйдут следующим раундом.
type Resolver struct {
	store    *Store
	notifier Notifier
	log      *slog.Logger
}

func NewResolver(store *Store, notifier Notifier, log *slog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

type notification struct {
	level   Level
	message string
}

// Apply применяет серверный список updated к корзине. sent — множество
// идентификаторов, вошедших в запрос этого раунда.
func (r *Resolver) Apply(updated []cart.ServerCartItem, sent map[string]struct{}) {
	byID := make(map[string]cart.ServerCartItem, len(updated))
	for _, it := range updated {
		byID[it.ID] = it
	}

	var notes []notification

	r.store.Update(func(st *cart.CartState) bool {
		changed := false
		kept := st.Items[:0]

		for _, it := range st.Items {
			srv, known := byID[it.ID]

			if !known {
				if _, wasSent := sent[it.ID]; !wasSent {
					// позиция моложе запроса, сервер о ней не знает
					kept = append(kept, it)
					continue
				}
				notes = append(notes, notification{
					level:   LevelWarn,
					message: fmt.Sprintf("«%s» больше не доступен и удален из корзины", it.Name),
				})
				changed = true
				continue
			}

			if srv.Quantity <= 0 {
				notes = append(notes, notification{
					level:   LevelWarn,
					message: fmt.Sprintf("«%s» закончился и удален из корзины", it.Name),
				})
				changed = true
				continue
			}

			if srv.Quantity != it.Quantity {
				notes = append(notes, notification{
					level:   LevelInfo,
					message: fmt.Sprintf("«%s»: доступно только %d, количество изменено", it.Name, srv.Quantity),
				})
				it.Quantity = srv.Quantity
				changed = true
			}

			if srv.Price != it.Price {
				notes = append(notes, notification{
					level:   LevelInfo,
					message: fmt.Sprintf("«%s»: цена изменилась", it.Name),
				})
				it.Price = srv.Price
				changed = true
			}

			if srv.MaxStock != it.MaxStock {
				it.MaxStock = srv.MaxStock
				changed = true
			}

			kept = append(kept, it)
		}

		st.Items = kept
		return changed
	})

	// уведомления уходят после снятия замка, ответа не ждем
	for _, n := range notes {
		r.notifier.Notify(n.level, n.message)
	}

	if len(notes) > 0 {
		r.log.Info("корзина сведена с сервером", "changes", len(notes))
	}
}
