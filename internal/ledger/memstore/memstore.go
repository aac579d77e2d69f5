// Package memstore is an in-memory ledger.Repository. A unit of work holds the
// lock of every member it touches until it ends, and its writes become visible
// only on Commit.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/stats"
)

// Operation names accepted by FailOn.
const (
	OpBegin              = "Begin"
	OpLockMember         = "LockMember"
	OpInsertTransaction  = "InsertTransaction"
	OpAdjustBalance      = "AdjustBalance"
	OpMarkRegistered     = "MarkRegistered"
	OpInsertContribution = "InsertContribution"
	OpInsertTreasuryLog  = "InsertTreasuryLog"
	OpInsertNotification = "InsertNotification"
	OpTreasuryBalance    = "TreasuryBalance"
	OpCommit             = "Commit"
)

var errDone = errors.New("unit of work already finished")

type Store struct {
	mu            sync.Mutex
	members       map[uuid.UUID]*ledger.Member
	locks         map[uuid.UUID]*sync.Mutex
	transactions  []ledger.Transaction
	contributions []ledger.MonthlyContribution
	notifications []ledger.Notification
	logs          []ledger.TreasuryLog
	faults        map[string]error
	now           func() time.Time
}

func New() *Store {
	return &Store{
		members: make(map[uuid.UUID]*ledger.Member),
		locks:   make(map[uuid.UUID]*sync.Mutex),
		faults:  make(map[string]error),
		now:     time.Now,
	}
}

// AddMember seeds a member and returns its id.
func (s *Store) AddMember(m ledger.Member) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}

	s.members[m.ID] = &m
	s.locks[m.ID] = &sync.Mutex{}

	return m.ID
}

// FailOn makes every later call of op return err. A nil err clears the fault.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.faults, op)
		return
	}

	s.faults[op] = err
}

func (s *Store) Member(id uuid.UUID) (ledger.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return ledger.Member{}, false
	}

	return *m, true
}

func (s *Store) Transactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ledger.Transaction(nil), s.transactions...)
}

func (s *Store) Contributions() []ledger.MonthlyContribution {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ledger.MonthlyContribution(nil), s.contributions...)
}

func (s *Store) Notifications() []ledger.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ledger.Notification(nil), s.notifications...)
}

func (s *Store) TreasuryLogs() []ledger.TreasuryLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]ledger.TreasuryLog(nil), s.logs...)
}

func (s *Store) fault(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.faults[op]
}

func (s *Store) Begin(_ context.Context) (ledger.UnitOfWork, error) {
	if err := s.fault(OpBegin); err != nil {
		return nil, err
	}

	return &unitOfWork{
		store:      s,
		held:       make(map[uuid.UUID]*sync.Mutex),
		deltas:     make(map[uuid.UUID]decimal.Decimal),
		registered: make(map[uuid.UUID]bool),
	}, nil
}

// Snapshot aggregates committed member state for the month starting at month.
func (s *Store) Snapshot(_ context.Context, month time.Time) (*stats.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &stats.Snapshot{TotalBalance: decimal.Zero}

	for _, m := range s.members {
		snap.TotalMembers++
		snap.TotalBalance = snap.TotalBalance.Add(m.Balance)

		if m.RegistrationPaid {
			snap.RegisteredMembers++
		} else {
			snap.PendingRegistrations++
		}
	}

	paid := make(map[uuid.UUID]struct{})

	for _, c := range s.contributions {
		if c.Status == ledger.ContributionPaid && c.Month.Equal(month) {
			paid[c.MemberID] = struct{}{}
		}
	}

	snap.PaidThisMonth = len(paid)

	return snap, nil
}

type unitOfWork struct {
	store *Store
	done  bool

	held       map[uuid.UUID]*sync.Mutex
	deltas     map[uuid.UUID]decimal.Decimal
	registered map[uuid.UUID]bool

	transactions  []ledger.Transaction
	contributions []ledger.MonthlyContribution
	notifications []ledger.Notification
	logs          []ledger.TreasuryLog
}

func (u *unitOfWork) check(op string) error {
	if u.done {
		return errDone
	}

	return u.store.fault(op)
}

// lock acquires the member's lock for the rest of the unit of work.
func (u *unitOfWork) lock(id uuid.UUID) error {
	if _, ok := u.held[id]; ok {
		return nil
	}

	u.store.mu.Lock()
	l, ok := u.store.locks[id]
	u.store.mu.Unlock()

	if !ok {
		return ledger.ErrMemberNotFound
	}

	l.Lock()
	u.held[id] = l

	return nil
}

// member returns the committed member with this unit's staged changes applied.
func (u *unitOfWork) member(id uuid.UUID) ledger.Member {
	u.store.mu.Lock()
	m := *u.store.members[id]
	u.store.mu.Unlock()

	if d, ok := u.deltas[id]; ok {
		m.Balance = m.Balance.Add(d)
	}

	if u.registered[id] {
		m.RegistrationPaid = true
	}

	return m
}

func (u *unitOfWork) LockMember(_ context.Context, id uuid.UUID) (*ledger.Member, error) {
	if err := u.check(OpLockMember); err != nil {
		return nil, err
	}

	if err := u.lock(id); err != nil {
		return nil, err
	}

	m := u.member(id)

	return &m, nil
}

func (u *unitOfWork) InsertTransaction(_ context.Context, tx *ledger.Transaction) error {
	if err := u.check(OpInsertTransaction); err != nil {
		return err
	}

	tx.ID = uuid.New()
	tx.CreatedAt = u.store.now()
	u.transactions = append(u.transactions, *tx)

	return nil
}

func (u *unitOfWork) AdjustBalance(_ context.Context, memberID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if err := u.check(OpAdjustBalance); err != nil {
		return decimal.Zero, err
	}

	if err := u.lock(memberID); err != nil {
		return decimal.Zero, err
	}

	next := u.member(memberID).Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, ledger.ErrInsufficientFunds
	}

	u.deltas[memberID] = u.deltas[memberID].Add(delta)

	return next, nil
}

func (u *unitOfWork) MarkRegistered(_ context.Context, memberID uuid.UUID) error {
	if err := u.check(OpMarkRegistered); err != nil {
		return err
	}

	if err := u.lock(memberID); err != nil {
		return err
	}

	if u.member(memberID).RegistrationPaid {
		return ledger.ErrAlreadyRegistered
	}

	u.registered[memberID] = true

	return nil
}

func (u *unitOfWork) InsertContribution(_ context.Context, c *ledger.MonthlyContribution) error {
	if err := u.check(OpInsertContribution); err != nil {
		return err
	}

	if c.Status == ledger.ContributionPaid {
		u.store.mu.Lock()
		existing := append([]ledger.MonthlyContribution(nil), u.store.contributions...)
		u.store.mu.Unlock()

		for _, e := range append(existing, u.contributions...) {
			if e.MemberID == c.MemberID && e.Status == ledger.ContributionPaid && e.Month.Equal(c.Month) {
				return ledger.ErrContributionExists
			}
		}
	}

	c.ID = uuid.New()
	u.contributions = append(u.contributions, *c)

	return nil
}

func (u *unitOfWork) InsertTreasuryLog(_ context.Context, l *ledger.TreasuryLog) error {
	if err := u.check(OpInsertTreasuryLog); err != nil {
		return err
	}

	l.ID = uuid.New()
	l.CreatedAt = u.store.now()
	u.logs = append(u.logs, *l)

	return nil
}

func (u *unitOfWork) InsertNotification(_ context.Context, n *ledger.Notification) error {
	if err := u.check(OpInsertNotification); err != nil {
		return err
	}

	n.ID = uuid.New()
	n.CreatedAt = u.store.now()
	u.notifications = append(u.notifications, *n)

	return nil
}

// TreasuryBalance sums committed balances plus this unit's own staged deltas.
func (u *unitOfWork) TreasuryBalance(_ context.Context) (decimal.Decimal, error) {
	if err := u.check(OpTreasuryBalance); err != nil {
		return decimal.Zero, err
	}

	u.store.mu.Lock()
	total := decimal.Zero
	for _, m := range u.store.members {
		total = total.Add(m.Balance)
	}
	u.store.mu.Unlock()

	for _, d := range u.deltas {
		total = total.Add(d)
	}

	return total, nil
}

func (u *unitOfWork) Commit() error {
	if err := u.check(OpCommit); err != nil {
		return err
	}

	s := u.store
	s.mu.Lock()

	for id, d := range u.deltas {
		s.members[id].Balance = s.members[id].Balance.Add(d)
	}

	for id := range u.registered {
		s.members[id].RegistrationPaid = true
	}

	s.transactions = append(s.transactions, u.transactions...)
	s.contributions = append(s.contributions, u.contributions...)
	s.notifications = append(s.notifications, u.notifications...)
	s.logs = append(s.logs, u.logs...)

	s.mu.Unlock()

	u.release()

	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}

	u.release()

	return nil
}

func (u *unitOfWork) release() {
	u.done = true

	for _, l := range u.held {
		l.Unlock()
	}

	u.held = nil
}
