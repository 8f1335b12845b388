// Package service holds the message-thread core: aggregation of the
// derived thread view, thread lifecycle transitions, and the unread
// counter. Handlers stay thin; everything stateful lives in the store.
package service

import (
	"github.com/jobdropo/messages-service/internal/queue"
	"github.com/jobdropo/messages-service/internal/repo"
)

type Service struct {
	Store *repo.Store
	Cache *repo.ThreadCache
	Pub   queue.Publisher
}

func New(store *repo.Store, cache *repo.ThreadCache, pub queue.Publisher) *Service {
	if pub == nil {
		pub = queue.NewNoop()
	}
	return &Service{Store: store, Cache: cache, Pub: pub}
}
