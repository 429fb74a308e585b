package token

import (
	"context"
	"sync"

	"dsc/core"
	"dsc/pkg/journal"

	"github.com/holiman/uint256"
)

// Token in-memory fungible token with allowances.
//
// State changes are journaled so the token can take part in atomic engine
// operations.
type Token struct {
	mu          sync.Mutex
	journal     journal.Journal
	name        string
	symbol      string
	decimals    uint8
	totalSupply *uint256.Int
	balances    map[string]*uint256.Int
	allowances  map[string]map[string]*uint256.Int
}

// New new token
func New(name, symbol string, decimals uint8) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: new(uint256.Int),
		balances:    make(map[string]*uint256.Int),
		allowances:  make(map[string]map[string]*uint256.Int),
	}
}

func (t *Token) Name() string { return t.name }

func (t *Token) Symbol() string { return t.symbol }

func (t *Token) Decimals() uint8 { return t.decimals }

func (t *Token) TotalSupply(ctx context.Context) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(uint256.Int).Set(t.totalSupply)
}

func (t *Token) BalanceOf(ctx context.Context, account string) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(uint256.Int).Set(t.balanceOf(account))
}

func (t *Token) Allowance(ctx context.Context, owner, spender string) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(uint256.Int).Set(t.allowanceOf(owner, spender))
}

// Approve sets the amount spender may move out of caller's balance
func (t *Token) Approve(ctx context.Context, caller, spender string, amount *uint256.Int) error {
	if caller == "" || spender == "" {
		return core.ErrZeroAccount
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.setAllowance(caller, spender, new(uint256.Int).Set(amount))
	return nil
}

func (t *Token) Transfer(ctx context.Context, caller, to string, amount *uint256.Int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.transfer(caller, to, amount); err != nil {
		return false, err
	}

	return true, nil
}

func (t *Token) TransferFrom(ctx context.Context, caller, from, to string, amount *uint256.Int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := t.allowanceOf(from, caller)
	if allowance.Lt(amount) {
		return false, core.ErrInsufficientAllowance
	}

	if err := t.transfer(from, to, amount); err != nil {
		return false, err
	}

	t.setAllowance(from, caller, new(uint256.Int).Sub(allowance, amount))
	return true, nil
}

// Mint creates amount tokens for to, unrestricted
func (t *Token) Mint(ctx context.Context, to string, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mint(to, amount)
}

func (t *Token) Snapshot() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.journal.Snapshot()
}

func (t *Token) RevertToSnapshot(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.journal.RevertToSnapshot(id)
}

func (t *Token) Commit(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.journal.Commit(id)
}

func (t *Token) transfer(from, to string, amount *uint256.Int) error {
	if from == "" || to == "" {
		return core.ErrZeroAccount
	}

	balance := t.balanceOf(from)
	if balance.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	t.setBalance(from, new(uint256.Int).Sub(balance, amount))
	t.setBalance(to, new(uint256.Int).Add(t.balanceOf(to), amount))
	return nil
}

func (t *Token) mint(to string, amount *uint256.Int) error {
	if to == "" {
		return core.ErrZeroAccount
	}

	supply, overflow := new(uint256.Int).AddOverflow(t.totalSupply, amount)
	if overflow {
		return core.ErrOverflow
	}

	t.setTotalSupply(supply)
	t.setBalance(to, new(uint256.Int).Add(t.balanceOf(to), amount))
	return nil
}

func (t *Token) burn(from string, amount *uint256.Int) error {
	balance := t.balanceOf(from)
	if balance.Lt(amount) {
		return core.ErrInsufficientBalance
	}

	t.setBalance(from, new(uint256.Int).Sub(balance, amount))
	t.setTotalSupply(new(uint256.Int).Sub(t.totalSupply, amount))
	return nil
}

func (t *Token) balanceOf(account string) *uint256.Int {
	if v, ok := t.balances[account]; ok {
		return v
	}

	return new(uint256.Int)
}

func (t *Token) allowanceOf(owner, spender string) *uint256.Int {
	if v, ok := t.allowances[owner][spender]; ok {
		return v
	}

	return new(uint256.Int)
}

func (t *Token) setBalance(account string, v *uint256.Int) {
	prev, existed := t.balances[account]
	t.balances[account] = v

	t.journal.Append(func() {
		if existed {
			t.balances[account] = prev
		} else {
			delete(t.balances, account)
		}
	})
}

func (t *Token) setAllowance(owner, spender string, v *uint256.Int) {
	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[string]*uint256.Int)
		t.allowances[owner] = spenders
	}

	prev, existed := spenders[spender]
	spenders[spender] = v

	t.journal.Append(func() {
		if existed {
			spenders[spender] = prev
		} else {
			delete(spenders, spender)
		}
	})
}

func (t *Token) setTotalSupply(v *uint256.Int) {
	prev := t.totalSupply
	t.totalSupply = v

	t.journal.Append(func() {
		t.totalSupply = prev
	})
}
