package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

const (
	notificationTitle = "Omiri: Deals Found!"

	defaultDeepLink      = "omiri://shopping_list_matches"
	defaultPreviewLength = 20
)

// ReconciliationConfig holds configuration for the reconciliation task
type ReconciliationConfig struct {
	DeepLink      string
	PreviewLength int
}

// ReconciliationTask matches the persisted shopping list against live deals
// and notifies the user when something is found. It keeps no state between runs.
type ReconciliationTask struct {
	prefs         domain.PreferenceStore
	stores        domain.StoreLookup
	searcher      domain.DealSearcher
	notifier      domain.Notifier
	deepLink      string
	previewLength int
	newID         func() string
}

// NewReconciliationTask creates a reconciliation task with its collaborators
func NewReconciliationTask(
	prefs domain.PreferenceStore,
	stores domain.StoreLookup,
	searcher domain.DealSearcher,
	notifier domain.Notifier,
	config ReconciliationConfig,
) *ReconciliationTask {
	deepLink := config.DeepLink
	if deepLink == "" {
		deepLink = defaultDeepLink
	}

	previewLength := config.PreviewLength
	if previewLength <= 0 {
		previewLength = defaultPreviewLength
	}

	return &ReconciliationTask{
		prefs:         prefs,
		stores:        stores,
		searcher:      searcher,
		notifier:      notifier,
		deepLink:      deepLink,
		previewLength: previewLength,
		newID:         uuid.NewString,
	}
}

// Run performs one reconciliation pass and classifies how it ended.
// Remote search failures and cancellation yield Retry, unexpected errors
// (including panics) yield Failure, everything else is Success.
func (t *ReconciliationTask) Run(ctx context.Context) (outcome domain.TaskOutcome) {
	logger := log.WithField("component", "reconciliation")

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("reconciliation panicked: %v", r)
			logger.WithField("stack", string(debug.Stack())).Error(err)
			outcome = domain.Failure(err)
		}
	}()

	items, err := t.prefs.ShoppingListItems(ctx)
	if err != nil {
		return t.unexpected(ctx, logger, err)
	}

	itemList := joinItems(items)
	if itemList == "" {
		logger.Debug("Shopping list is empty, nothing to check")
		return domain.Success("shopping list is empty")
	}

	country, err := t.prefs.SelectedCountry(ctx)
	if err != nil {
		return t.unexpected(ctx, logger, err)
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		country = domain.DefaultCountry
	}

	storeIDs, err := t.prefs.SelectedStores(ctx)
	if err != nil {
		return t.unexpected(ctx, logger, err)
	}

	retailers := t.resolveRetailers(ctx, logger, storeIDs, country)

	if err := ctx.Err(); err != nil {
		return domain.Retry(err)
	}

	query := domain.SearchQuery{
		Items:     itemList,
		Country:   country,
		Retailers: strings.Join(retailers, ","),
	}
	logger = logger.WithFields(log.Fields{"country": country, "retailers": query.Retailers})

	matches, err := t.searcher.SearchShoppingList(ctx, query)
	if err != nil {
		logger.Warnf("Deal search failed, will retry: %v", err)
		return domain.Retry(err)
	}

	totalDeals := matches.TotalDeals()
	if totalDeals == 0 {
		logger.Info("No deals found for shopping list")
		return domain.Success("no deals found")
	}

	outcome = domain.Success(fmt.Sprintf("found %d deals", totalDeals))
	outcome.TotalDeals = totalDeals

	foreground, err := t.prefs.AppForeground(ctx)
	if err != nil {
		logger.Warnf("Could not read foreground flag, notifying anyway: %v", err)
	}
	if foreground {
		logger.WithField("total_deals", totalDeals).Info("App in foreground, notification suppressed")
		outcome.Reason = fmt.Sprintf("found %d deals, app in foreground", totalDeals)
		return outcome
	}

	if err := ctx.Err(); err != nil {
		return domain.Retry(err)
	}

	notification := t.buildNotification(itemList, totalDeals)
	if err := t.notifier.Notify(ctx, notification); err != nil {
		logger.WithField("notification", notification.ID).Warnf("Notification dispatch failed: %v", err)
		return outcome
	}

	logger.WithFields(log.Fields{
		"notification": notification.ID,
		"total_deals":  totalDeals,
	}).Info("Deals notification dispatched")
	outcome.Notified = true
	return outcome
}

// resolveRetailers turns the selected stores of country into retailer names.
// A lookup failure degrades to no retailer filter.
func (t *ReconciliationTask) resolveRetailers(ctx context.Context, logger *log.Entry, storeIDs []string, country string) []string {
	filtered := FilterStoresForCountry(storeIDs, country)
	if len(filtered) == 0 {
		return nil
	}

	records, err := t.stores.GetStores(ctx, country)
	if err != nil {
		logger.WithField("country", country).Warnf("Store lookup failed, searching all retailers: %v", err)
		return nil
	}

	return ResolveRetailers(filtered, records)
}

// buildNotification assembles the single deals notification of a run
func (t *ReconciliationTask) buildNotification(itemList string, totalDeals int) domain.Notification {
	preview := previewText(itemList, t.previewLength)
	return domain.Notification{
		ID:        t.newID(),
		Title:     notificationTitle,
		Body:      fmt.Sprintf("Found %d deals for your list: %s...", totalDeals, preview),
		DeepLink:  t.deepLink,
		DealCount: totalDeals,
		Preview:   preview,
	}
}

// unexpected classifies an error that is not a known remote failure.
// Errors caused by cancellation stay retryable.
func (t *ReconciliationTask) unexpected(ctx context.Context, logger *log.Entry, err error) domain.TaskOutcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Retry(ctxErr)
	}
	logger.Errorf("Reconciliation failed: %v", err)
	return domain.Failure(err)
}

// joinItems builds the comma-joined item string, skipping blank entries
func joinItems(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ",")
}

// previewText returns the first n runes of s
func previewText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
