package background

import (
	"context"
	"log"
	"time"

	conversationuc "github.com/YaroslavBek/gigfair-core/internal/usecase/conversation"
	notificationuc "github.com/YaroslavBek/gigfair-core/internal/usecase/notification"
	orderuc "github.com/YaroslavBek/gigfair-core/internal/usecase/order"
)

type BackgroundTasks struct {
	OrderUsecase  orderuc.OrderUsecase
	Conversations *conversationuc.Aggregator
	Notifications *notificationuc.Dispatcher

	ResyncInterval time.Duration
	RescanInterval time.Duration
}

func NewBackgroundTasks(orderUC orderuc.OrderUsecase, convs *conversationuc.Aggregator, notifs *notificationuc.Dispatcher, resync, rescan time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		OrderUsecase:   orderUC,
		Conversations:  convs,
		Notifications:  notifs,
		ResyncInterval: resync,
		RescanInterval: rescan,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startOrderResync(ctx)
	go bt.startAutoCompleteRescan(ctx)
	go bt.startFeedResync(ctx)
}

// startOrderResync periodically replaces the cached order list with the
// server's, catching anything a dropped socket frame missed.
func (bt *BackgroundTasks) startOrderResync(ctx context.Context) {
	ticker := time.NewTicker(bt.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.OrderUsecase.Sync(ctx); err != nil {
				log.Printf("Order resync error: %v\n", err)
			}
		}
	}
}

// startAutoCompleteRescan sweeps delivered orders whose grace window
// elapsed while the process was not running a live timer for them.
func (bt *BackgroundTasks) startAutoCompleteRescan(ctx context.Context) {
	ticker := time.NewTicker(bt.RescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.OrderUsecase.RescanAutoComplete(); err != nil {
				log.Printf("Auto-complete rescan error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startFeedResync(ctx context.Context) {
	ticker := time.NewTicker(bt.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.Conversations.Refresh(ctx); err != nil {
				log.Printf("Conversation resync error: %v\n", err)
			}
			if err := bt.Notifications.Refresh(ctx); err != nil {
				log.Printf("Notification resync error: %v\n", err)
			}
		}
	}
}
