package cart

import (
	"context"
	"log"
	"sync"
	"time"
)

// Ledger owns the line items. All mutation is whole-slice replacement;
// the previous slice is never edited in place, so snapshots taken by
// Items() stay valid after later mutations.
type Ledger struct {
	mu    sync.Mutex
	items []LineItem
	store Store
}

func NewLedger(store Store) *Ledger {
	l := &Ledger{store: store}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if snap, err := store.Load(ctx); err == nil {
			l.items = snap.Items
		}
	}
	return l
}

// SetItems replaces the cart with a literal list.
func (l *Ledger) SetItems(items []LineItem) {
	l.mu.Lock()
	l.items = copyItems(items)
	l.persistLocked()
	l.mu.Unlock()
}

// UpdateItems replaces the cart with fn(previous). fn receives a copy
// and must return the full next list.
func (l *Ledger) UpdateItems(fn func(prev []LineItem) []LineItem) {
	l.mu.Lock()
	l.items = copyItems(fn(copyItems(l.items)))
	l.persistLocked()
	l.mu.Unlock()
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	l.items = nil
	l.persistLocked()
	l.mu.Unlock()
}

func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyItems(l.items)
}

// Subtotal in base currency.
func (l *Ledger) Subtotal() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, it := range l.items {
		total += it.Price * it.Qty
	}
	return total
}

// Count is the number of units, not the number of lines.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, it := range l.items {
		n += it.Qty
	}
	return n
}

// persistLocked writes the snapshot best-effort. A failed write leaves
// the in-memory cart valid and is never surfaced to the caller.
func (l *Ledger) persistLocked() {
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.store.Save(ctx, Snapshot{Items: copyItems(l.items)}); err != nil {
		log.Printf("cart: persist failed: %v", err)
	}
}

func copyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
