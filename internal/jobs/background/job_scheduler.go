package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"dely/internal/caching"
	"dely/internal/config"
	"dely/internal/repositories"
)

// Delivered orders settle into completed after this grace period.
const autoCompleteAfter = 7 * 24 * time.Hour

// JobScheduler manages the recurring background jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	orderRepo    repositories.OrderRepository
	categoryRepo repositories.CategoryRepository
	cacheSvc     caching.CacheService
	log          *logrus.Logger
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(orderRepo repositories.OrderRepository, categoryRepo repositories.CategoryRepository, cacheSvc caching.CacheService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		orderRepo:    orderRepo,
		categoryRepo: categoryRepo,
		cacheSvc:     cacheSvc,
		log:          config.GetLogger(),
		jobs:         make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	completeJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.completeDeliveredOrders, context.Background()),
		gocron.WithName("order-auto-complete"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.log.WithError(err).Error("failed to register order auto-complete job")
	} else {
		js.jobs["order-auto-complete"] = completeJob
	}

	warmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.warmCategoryCache, context.Background()),
		gocron.WithName("category-cache-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.log.WithError(err).Error("failed to register category cache-warm job")
	} else {
		js.jobs["category-cache-warm"] = warmJob
	}
}

// completeDeliveredOrders settles delivered orders that have sat past
// the grace period into the completed state.
func (js *JobScheduler) completeDeliveredOrders(ctx context.Context) {
	cutoff := time.Now().Add(-autoCompleteAfter)
	settled, err := js.orderRepo.CompleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		js.log.WithError(err).Error("order auto-complete job failed")
		return
	}
	if settled > 0 {
		js.log.WithField("orders", settled).Info("settled delivered orders")
	}
}

// warmCategoryCache refreshes the category listing cache so the first
// storefront request after an invalidation stays fast.
func (js *JobScheduler) warmCategoryCache(ctx context.Context) {
	if js.cacheSvc == nil {
		return
	}
	categories, err := js.categoryRepo.ListActive(ctx)
	if err != nil {
		js.log.WithError(err).Error("category cache-warm job failed")
		return
	}
	if err := js.cacheSvc.SetCategories(ctx, categories, time.Hour); err != nil {
		js.log.WithError(err).Warn("category cache-warm set failed")
	}
}
