package ui

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

// feedCap bounds the local transaction feed.
const feedCap = 50

// refreshTimeout bounds the fire-and-forget refresh a modal triggers after
// a successful mutation.
const refreshTimeout = 15 * time.Second

// Dashboard owns the overview page state: the authoritative goal list, the
// local transaction feed, and the member sidebar for the focused goal.
// Mutations never patch the list in place; every change is followed by a
// wholesale refetch.
type Dashboard struct {
	mu    sync.Mutex
	gen   uint64
	goals []domain.SavingsGoal
	feed  []domain.Transaction

	focusID      string
	focusMembers []domain.Member

	active ModalKind

	svc     port.GoalDirectory
	members port.MemberCache
	sf      singleflight.Group
	metrics *observability.Metrics
	logger  *zap.Logger

	Transactions *TransactionForm
	Receipt      *ReceiptForm
}

func NewDashboard(svc port.GoalDirectory, members port.MemberCache, scanner port.ReceiptScanner, metrics *observability.Metrics, logger *zap.Logger) *Dashboard {
	d := &Dashboard{
		svc:     svc,
		members: members,
		metrics: metrics,
		logger:  logger,
	}
	d.Transactions = NewTransactionForm(svc, d.refreshAsync, d.Record, logger)
	d.Receipt = NewReceiptForm(scanner, logger)
	return d
}

type dashboardFetch struct {
	goals   []domain.SavingsGoal
	members []domain.Member
	focusID string
}

// Refresh refetches the goal list (and the focused goal's members when a
// sidebar is open) and replaces the container state wholesale. Concurrent
// callers share one in-flight fetch; a result that arrives after a newer
// refresh started is discarded instead of clobbering fresher state.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	focusID := d.focusID
	d.mu.Unlock()

	v, err, _ := d.sf.Do("refresh", func() (any, error) {
		var fetch dashboardFetch
		fetch.focusID = focusID

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			goals, err := d.svc.List(ctx)
			if err != nil {
				return err
			}
			fetch.goals = goals
			return nil
		})
		if focusID != "" {
			g.Go(func() error {
				members, err := d.fetchMembers(ctx, focusID)
				if err != nil {
					return err
				}
				fetch.members = members
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return fetch, nil
	})
	if err != nil {
		return err
	}
	fetch := v.(dashboardFetch)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		return nil
	}
	d.goals = fetch.goals
	if fetch.focusID == d.focusID && fetch.focusID != "" {
		d.focusMembers = fetch.members
	}
	d.metrics.IncrRefresh("dashboard")
	return nil
}

// FocusGoal opens the member sidebar for one goal, fetching its members
// lazily through the cache. Focusing a different goal replaces the sidebar.
func (d *Dashboard) FocusGoal(ctx context.Context, id string) ([]domain.Member, error) {
	members, err := d.fetchMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeModalsLocked()
	d.active = ModalMembers
	d.focusID = id
	d.focusMembers = members
	return members, nil
}

// Blur closes the member sidebar.
func (d *Dashboard) Blur() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == ModalMembers {
		d.active = ModalNone
	}
	d.focusID = ""
	d.focusMembers = nil
}

func (d *Dashboard) fetchMembers(ctx context.Context, goalID string) ([]domain.Member, error) {
	if cached, ok := d.members.Get(goalID); ok {
		d.metrics.IncrCacheHit("members")
		return cached, nil
	}
	d.metrics.IncrCacheMiss("members")
	members, err := d.svc.Members(ctx, goalID)
	if err != nil {
		return nil, err
	}
	d.members.Set(goalID, members)
	return members, nil
}

// Record prepends a transaction to the local feed.
func (d *Dashboard) Record(tx domain.Transaction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.feed = append([]domain.Transaction{tx}, d.feed...)
	if len(d.feed) > feedCap {
		d.feed = d.feed[:feedCap]
	}
}

// OpenTransactionModal closes any other modal first; at most one modal is
// open per container.
func (d *Dashboard) OpenTransactionModal(ctx context.Context, kind string) {
	d.mu.Lock()
	d.closeModalsLocked()
	d.active = ModalTransaction
	d.mu.Unlock()
	d.Transactions.Open(ctx, kind)
}

func (d *Dashboard) OpenReceiptModal() {
	d.mu.Lock()
	d.closeModalsLocked()
	d.active = ModalReceipt
	d.mu.Unlock()
	d.Receipt.Open()
}

func (d *Dashboard) CloseModals() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeModalsLocked()
}

// closeModalsLocked requires d.mu held.
func (d *Dashboard) closeModalsLocked() {
	d.active = ModalNone
	d.focusID = ""
	d.focusMembers = nil
	d.Transactions.Close()
	d.Receipt.Close()
}

func (d *Dashboard) ActiveModal() ModalKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Reset drops all state, invalidating any in-flight refresh.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.goals = nil
	d.feed = nil
	d.closeModalsLocked()
}

// refreshAsync is the fire-and-forget refresh hook handed to modals. Its
// failure is logged, never surfaced: the submit that triggered it already
// succeeded.
func (d *Dashboard) refreshAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := d.Refresh(ctx); err != nil {
			d.logger.Warn("background refresh failed", zap.String("container", "dashboard"), zap.Error(err))
		}
	}()
}

// DashboardState is the rendered page snapshot.
type DashboardState struct {
	Goals       []view.GoalCard        `json:"goals"`
	TotalSaved  string                 `json:"total_saved"`
	Feed        []view.TransactionItem `json:"transactions"`
	FocusID     string                 `json:"focus_id,omitempty"`
	Members     []view.MemberItem      `json:"members,omitempty"`
	ActiveModal ModalKind              `json:"active_modal"`
}

// State renders the current container state. Amounts come straight from
// the last fetch; the total is derived on every call.
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()

	var total int64
	for _, g := range d.goals {
		total += g.Current
	}
	return DashboardState{
		Goals:       view.NewGoalCards(d.goals),
		TotalSaved:  view.FormatIDR(total),
		Feed:        view.NewTransactionList(d.feed),
		FocusID:     d.focusID,
		Members:     view.NewMemberList(d.focusMembers),
		ActiveModal: d.active,
	}
}
