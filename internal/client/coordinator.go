package client

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/partstock/internal/record"
)

// ErrNoSession is returned for mutations attempted before Login.
var ErrNoSession = errors.New("no active session")

const (
	// DefaultRefreshInterval is the background poll period.
	DefaultRefreshInterval = 30 * time.Second

	// DefaultSettleDelay keeps the in-flight gate closed after a mutation
	// acks, long enough to outlast the store's read cache.
	DefaultSettleDelay = 1500 * time.Millisecond
)

// Identity is the verified user for the current session.
type Identity struct {
	EmployeeID  string
	DisplayName string
	Token       string
}

// Config tunes the coordinator; zero values take the defaults above.
type Config struct {
	RefreshInterval time.Duration
	SettleDelay     time.Duration
}

// Coordinator owns the cached inventory list and mediates between the
// periodic background refresh and user-initiated mutations. Every operation
// draws a monotonically increasing sequence number; a refresh result is
// applied only when no user action is in flight and no action holds a higher
// token than the refresh had when it started. That single-writer token is
// the guarantee that a locally confirmed write is never overwritten by a
// read that began before the write was confirmed. Concurrent edits from
// other clients are not reconciled; the next poll simply wins.
type Coordinator struct {
	gw StoreGateway

	refreshInterval time.Duration
	settleDelay     time.Duration

	mu            sync.Mutex
	inventory     []record.InventoryRecord
	identity      *Identity
	seq           uint64 // last issued operation token
	lastConfirmed uint64 // token held by the most recent user action
	inFlight      int    // user mutations currently outstanding or settling
	syncErr       error  // last background refresh failure, nil when healthy
}

func NewCoordinator(gw StoreGateway, cfg Config) *Coordinator {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	return &Coordinator{
		gw:              gw,
		refreshInterval: cfg.RefreshInterval,
		settleDelay:     cfg.SettleDelay,
	}
}

// Login verifies the employee against the whitelist, records the login on
// the ledger (best effort) and populates the session state.
func (c *Coordinator) Login(ctx context.Context, employeeID string) (*Identity, error) {
	name, token, err := c.gw.VerifyUser(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	id := &Identity{EmployeeID: employeeID, DisplayName: name, Token: token}
	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()

	if setter, ok := c.gw.(interface{ SetToken(string) }); ok {
		setter.SetToken(token)
	}

	if err := c.gw.RecordLogin(ctx, employeeID); err != nil {
		log.Printf("[Client] login ledger entry failed: %v", err)
	}
	return id, nil
}

// Logout clears the session and all cached state.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	c.identity = nil
	c.inventory = nil
	c.syncErr = nil
	c.mu.Unlock()

	if setter, ok := c.gw.(interface{ SetToken(string) }); ok {
		setter.SetToken("")
	}
}

// Identity returns the current session identity, or nil.
func (c *Coordinator) Identity() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Inventory returns a copy of the last known-good inventory.
func (c *Coordinator) Inventory() []record.InventoryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]record.InventoryRecord, len(c.inventory))
	copy(out, c.inventory)
	return out
}

// SyncError reports the last background refresh failure, nil when the most
// recent refresh succeeded.
func (c *Coordinator) SyncError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncErr
}

// Run polls the store on the fixed interval until ctx is cancelled. Failures
// keep the last known-good inventory and do not stop the loop.
func (c *Coordinator) Run(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		log.Printf("[Client] initial refresh failed: %v", err)
	}

	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				log.Printf("[Client] refresh failed: %v", err)
			}
		}
	}
}

// Refresh fetches the inventory and applies it unless the result went stale
// while outstanding. A cycle that starts while a user action is in flight is
// abandoned entirely.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight > 0 {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	start := c.seq
	c.mu.Unlock()

	items, err := c.gw.ListInventory(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.syncErr = err
		return err
	}
	c.syncErr = nil
	if c.inFlight > 0 {
		// A user action started while the request was outstanding.
		return nil
	}
	if start < c.lastConfirmed {
		log.Printf("[Client] discarding stale refresh (token %d < %d)", start, c.lastConfirmed)
		return nil
	}
	c.inventory = items
	return nil
}

// CheckIn increments a part by one.
func (c *Coordinator) CheckIn(ctx context.Context, partNumber string) (int, error) {
	return c.adjust(ctx, partNumber, +1)
}

// CheckOut decrements a part by one. The UI is expected to disable check-out
// at zero quantity; no further client-side validation happens here.
func (c *Coordinator) CheckOut(ctx context.Context, partNumber string) (int, error) {
	return c.adjust(ctx, partNumber, -1)
}

func (c *Coordinator) adjust(ctx context.Context, partNumber string, delta int) (int, error) {
	c.mu.Lock()
	if c.identity == nil {
		c.mu.Unlock()
		return 0, ErrNoSession
	}
	employeeID := c.identity.EmployeeID

	snapshot := make([]record.InventoryRecord, len(c.inventory))
	copy(snapshot, c.inventory)

	for i := range c.inventory {
		if c.inventory[i].PartNumber == partNumber {
			c.inventory[i].Quantity += delta
			break
		}
	}

	c.inFlight++
	c.seq++
	c.lastConfirmed = c.seq
	c.mu.Unlock()

	newQty, err := c.gw.AdjustQuantity(ctx, employeeID, partNumber, delta)

	c.mu.Lock()
	if err != nil {
		c.inventory = snapshot
	} else {
		for i := range c.inventory {
			if c.inventory[i].PartNumber == partNumber {
				c.inventory[i].Quantity = newQty
				break
			}
		}
		// Advance the token to the completion point so a refresh that
		// began before the server ack is still treated as stale.
		c.seq++
		c.lastConfirmed = c.seq
	}
	c.mu.Unlock()

	time.AfterFunc(c.settleDelay, func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	})

	return newQty, err
}

// AddItem creates a new part and refreshes the inventory. No optimistic
// insert happens; the refreshed list is authoritative for duplicates.
func (c *Coordinator) AddItem(ctx context.Context, item record.InventoryRecord) error {
	c.mu.Lock()
	if c.identity == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	employeeID := c.identity.EmployeeID
	c.mu.Unlock()

	if err := c.gw.CreateItem(ctx, employeeID, item); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Logs fetches the recent ledger, newest first.
func (c *Coordinator) Logs(ctx context.Context) ([]record.LedgerEntry, error) {
	return c.gw.ListLogs(ctx)
}
