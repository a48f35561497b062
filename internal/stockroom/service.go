package stockroom

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/example/partstock/internal/infrastructure/guard"
	"github.com/example/partstock/internal/infrastructure/sheet"
	"github.com/example/partstock/internal/record"
)

const (
	// LogsLimit caps how many ledger rows a read returns, newest first.
	LogsLimit = 50

	cacheInventoryKey = "partstock:inventory"
	cacheLogsKey      = "partstock:logs"
	cacheTTL          = 3 * time.Second
)

// Service owns the business rules over the sheet store: unique part numbers,
// the negative-stock guard, batch semantics and the one-ledger-row-per-
// mutation discipline. Every write runs under the bounded write lock; reads
// are unlocked and may be served from the short-lived cache.
type Service struct {
	store sheet.Store
	lock  guard.Locker
	cache guard.Cache
}

func NewService(store sheet.Store, lock guard.Locker, cache guard.Cache) *Service {
	return &Service{store: store, lock: lock, cache: cache}
}

// ListInventory returns all inventory rows, possibly a few seconds stale.
func (s *Service) ListInventory(ctx context.Context) ([]record.InventoryRecord, error) {
	var cached []record.InventoryRecord
	if ok, err := s.cache.GetJSON(ctx, cacheInventoryKey, &cached); err == nil && ok {
		return cached, nil
	}

	items, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cacheInventoryKey, items, cacheTTL); err != nil {
		log.Printf("[Stockroom] inventory cache write failed: %v", err)
	}
	return items, nil
}

// ListLogs returns up to LogsLimit ledger rows, newest first.
func (s *Service) ListLogs(ctx context.Context) ([]record.LedgerEntry, error) {
	var cached []record.LedgerEntry
	if ok, err := s.cache.GetJSON(ctx, cacheLogsKey, &cached); err == nil && ok {
		return cached, nil
	}

	entries, err := s.store.ListLogs(ctx, LogsLimit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cacheLogsKey, entries, cacheTTL); err != nil {
		log.Printf("[Stockroom] logs cache write failed: %v", err)
	}
	return entries, nil
}

// VerifyUser checks the whitelist and returns the display name.
func (s *Service) VerifyUser(ctx context.Context, employeeID string) (string, error) {
	if employeeID == "" {
		return "", ErrAccessDenied
	}
	name, ok, err := s.store.LookupUser(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("employee %s: %w", employeeID, ErrAccessDenied)
	}
	return name, nil
}

// RecordLogin appends a LOGIN ledger row with placeholder part fields.
func (s *Service) RecordLogin(ctx context.Context, employeeID string) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	entry := record.LedgerEntry{
		Timestamp:    time.Now(),
		EmployeeID:   employeeID,
		Action:       record.ActionLogin,
		PartNumber:   record.Placeholder,
		ChangeAmount: record.Placeholder,
		Balance:      record.Placeholder,
	}
	if err := s.store.InsertLog(ctx, entry); err != nil {
		return err
	}
	s.invalidate(ctx, cacheLogsKey)
	return nil
}

// AddItem creates a new inventory row and its CREATE ledger entry. The part
// number must be unique; the initial quantity becomes the opening balance.
func (s *Service) AddItem(ctx context.Context, employeeID string, item record.InventoryRecord) error {
	if item.PartNumber == "" {
		return ErrInvalidPartNumber
	}
	if item.Quantity < 0 {
		return ErrInvalidQuantity
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, exists, err := s.store.FindItem(ctx, item.PartNumber); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("part %s: %w", item.PartNumber, ErrDuplicateKey)
	}

	if err := s.store.AppendItem(ctx, item); err != nil {
		return err
	}

	entry := record.LedgerEntry{
		Timestamp:    time.Now(),
		EmployeeID:   employeeID,
		Action:       record.ActionCreate,
		PartNumber:   item.PartNumber,
		ChangeAmount: strconv.Itoa(item.Quantity),
		Balance:      strconv.Itoa(item.Quantity),
	}
	if err := s.store.InsertLog(ctx, entry); err != nil {
		return err
	}
	s.invalidate(ctx, cacheInventoryKey, cacheLogsKey)
	return nil
}

// AdjustQuantity applies one signed delta to a part and returns the new
// quantity. A delta that would drive the quantity negative is rejected and
// leaves the stored quantity unchanged.
func (s *Service) AdjustQuantity(ctx context.Context, employeeID, partNumber string, delta int) (int, error) {
	if partNumber == "" {
		return 0, ErrInvalidPartNumber
	}
	if delta == 0 {
		return 0, ErrInvalidAmount
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	item, found, err := s.store.FindItem(ctx, partNumber)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("part %s: %w", partNumber, ErrNotFound)
	}

	newQty := item.Quantity + delta
	if newQty < 0 {
		return 0, fmt.Errorf("%w: current %d", ErrInsufficientStock, item.Quantity)
	}

	if err := s.store.SetQuantity(ctx, partNumber, newQty); err != nil {
		return 0, err
	}

	action := record.ActionCheckIn
	if delta < 0 {
		action = record.ActionCheckOut
	}
	entry := record.LedgerEntry{
		Timestamp:    time.Now(),
		EmployeeID:   employeeID,
		Action:       action,
		PartNumber:   partNumber,
		ChangeAmount: strconv.Itoa(delta),
		Balance:      strconv.Itoa(newQty),
	}
	if err := s.store.InsertLog(ctx, entry); err != nil {
		return 0, err
	}
	s.invalidate(ctx, cacheInventoryKey, cacheLogsKey)
	return newQty, nil
}

// BatchAdjust applies each entry independently under a single lock hold.
// Unknown part numbers are skipped (logged, not reported back) and a delta
// that would go negative clamps the quantity to zero; the group is not
// atomic. One BATCH_IN/BATCH_OUT ledger row is written per applied entry.
func (s *Service) BatchAdjust(ctx context.Context, employeeID string, entries []record.BatchEntry) error {
	if len(entries) == 0 {
		return nil
	}

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	for _, e := range entries {
		if e.ChangeAmount == 0 {
			continue
		}
		item, found, err := s.store.FindItem(ctx, e.PartNumber)
		if err != nil {
			return err
		}
		if !found {
			log.Printf("[Stockroom] batch: skipping unknown part %s", e.PartNumber)
			continue
		}

		newQty := item.Quantity + e.ChangeAmount
		if newQty < 0 {
			newQty = 0
		}
		if err := s.store.SetQuantity(ctx, e.PartNumber, newQty); err != nil {
			return err
		}

		action := record.ActionBatchIn
		if e.ChangeAmount < 0 {
			action = record.ActionBatchOut
		}
		entry := record.LedgerEntry{
			Timestamp:    time.Now(),
			EmployeeID:   employeeID,
			Action:       action,
			PartNumber:   e.PartNumber,
			ChangeAmount: strconv.Itoa(e.ChangeAmount),
			Balance:      strconv.Itoa(newQty),
		}
		if err := s.store.InsertLog(ctx, entry); err != nil {
			return err
		}
	}
	s.invalidate(ctx, cacheInventoryKey, cacheLogsKey)
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		log.Printf("[Stockroom] cache invalidation failed: %v", err)
	}
}
