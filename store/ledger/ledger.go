package ledger

import (
	"sort"
	"sync"

	"dsc/core"
	"dsc/pkg/journal"

	"github.com/holiman/uint256"
)

type ledger struct {
	mu         sync.RWMutex
	journal    journal.Journal
	collateral map[string]map[string]*uint256.Int
	debt       map[string]*uint256.Int
}

// New new in-memory ledger
func New() core.ILedger {
	return &ledger{
		collateral: make(map[string]map[string]*uint256.Int),
		debt:       make(map[string]*uint256.Int),
	}
}

func (l *ledger) Snapshot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.journal.Snapshot()
}

func (l *ledger) RevertToSnapshot(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journal.RevertToSnapshot(id)
}

func (l *ledger) Commit(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journal.Commit(id)
}

func (l *ledger) Collateral(account, assetID string) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if v, ok := l.collateral[account][assetID]; ok {
		return new(uint256.Int).Set(v)
	}

	return new(uint256.Int)
}

func (l *ledger) AddCollateral(account, assetID string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.collateralOf(account, assetID)
	next, overflow := new(uint256.Int).AddOverflow(cur, amount)
	if overflow {
		return core.ErrOverflow
	}

	l.setCollateral(account, assetID, next)
	return nil
}

func (l *ledger) SubCollateral(account, assetID string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.collateralOf(account, assetID)
	next, underflow := new(uint256.Int).SubOverflow(cur, amount)
	if underflow {
		return core.ErrInsufficientBalance
	}

	l.setCollateral(account, assetID, next)
	return nil
}

func (l *ledger) Debt(account string) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if v, ok := l.debt[account]; ok {
		return new(uint256.Int).Set(v)
	}

	return new(uint256.Int)
}

func (l *ledger) AddDebt(account string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, overflow := new(uint256.Int).AddOverflow(l.debtOf(account), amount)
	if overflow {
		return core.ErrOverflow
	}

	l.setDebt(account, next)
	return nil
}

func (l *ledger) SubDebt(account string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, underflow := new(uint256.Int).SubOverflow(l.debtOf(account), amount)
	if underflow {
		return core.ErrInsufficientBalance
	}

	l.setDebt(account, next)
	return nil
}

func (l *ledger) Accounts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]bool)
	for account := range l.collateral {
		seen[account] = true
	}
	for account := range l.debt {
		seen[account] = true
	}

	accounts := make([]string, 0, len(seen))
	for account := range seen {
		accounts = append(accounts, account)
	}

	sort.Strings(accounts)
	return accounts
}

func (l *ledger) collateralOf(account, assetID string) *uint256.Int {
	if v, ok := l.collateral[account][assetID]; ok {
		return v
	}

	return new(uint256.Int)
}

func (l *ledger) debtOf(account string) *uint256.Int {
	if v, ok := l.debt[account]; ok {
		return v
	}

	return new(uint256.Int)
}

// setCollateral must be called with mu held
func (l *ledger) setCollateral(account, assetID string, v *uint256.Int) {
	balances, ok := l.collateral[account]
	if !ok {
		balances = make(map[string]*uint256.Int)
		l.collateral[account] = balances
	}

	prev, existed := balances[assetID]
	balances[assetID] = v

	l.journal.Append(func() {
		if existed {
			balances[assetID] = prev
			return
		}

		delete(balances, assetID)
		if len(balances) == 0 {
			delete(l.collateral, account)
		}
	})
}

// setDebt must be called with mu held
func (l *ledger) setDebt(account string, v *uint256.Int) {
	prev, existed := l.debt[account]
	l.debt[account] = v

	l.journal.Append(func() {
		if existed {
			l.debt[account] = prev
		} else {
			delete(l.debt, account)
		}
	})
}
