package ui

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

// Manage owns the management page: the authoritative goal list with full
// CRUD, the client-local budget list, and the per-goal member modal. Like
// the dashboard, it never patches the goal list after a mutation; it
// refetches it wholesale.
type Manage struct {
	mu    sync.Mutex
	gen   uint64
	goals []domain.SavingsGoal

	budgets []domain.Budget

	active        ModalKind
	membersGoalID string
	membersOpen   []domain.Member

	svc     port.GoalDirectory
	members port.MemberCache
	sf      singleflight.Group
	metrics *observability.Metrics
	logger  *zap.Logger

	GoalForm   *GoalForm
	BudgetForm *BudgetForm
}

func NewManage(svc port.GoalDirectory, members port.MemberCache, metrics *observability.Metrics, logger *zap.Logger) *Manage {
	m := &Manage{
		svc:     svc,
		members: members,
		metrics: metrics,
		logger:  logger,
	}
	m.GoalForm = NewGoalForm(svc, m.refreshAsync, logger)
	m.BudgetForm = NewBudgetForm(m.AddBudget)
	return m
}

// Refresh refetches the goal list and replaces it wholesale. The member
// cache is flushed so a modal opened after the refresh sees fresh numbers.
// Concurrent callers share one in-flight fetch; stale results are dropped.
func (m *Manage) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	v, err, _ := m.sf.Do("refresh", func() (any, error) {
		return m.svc.List(ctx)
	})
	if err != nil {
		return err
	}
	goals := v.([]domain.SavingsGoal)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return nil
	}
	m.goals = goals
	m.members.Flush()
	m.metrics.IncrRefresh("manage")
	return nil
}

// DeleteGoal deletes remotely and then refetches the list. On any failure,
// a goal already gone included, the local list is left exactly as it was.
func (m *Manage) DeleteGoal(ctx context.Context, id string) error {
	if err := m.svc.Delete(ctx, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// OpenGoalForm opens the create flow.
func (m *Manage) OpenGoalForm() {
	m.mu.Lock()
	m.closeModalsLocked()
	m.active = ModalGoalForm
	m.mu.Unlock()
	m.GoalForm.Open()
}

// OpenGoalEdit opens the edit flow, prefilled from the remote goal. If the
// prefill fetch fails no modal opens.
func (m *Manage) OpenGoalEdit(ctx context.Context, id string) error {
	if err := m.GoalForm.OpenForEdit(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateLocked(ModalGoalForm)
	return nil
}

func (m *Manage) OpenBudgetForm() {
	m.mu.Lock()
	m.closeModalsLocked()
	m.active = ModalBudgetForm
	m.mu.Unlock()
	m.BudgetForm.Open()
}

// OpenMembers shows the member modal for one goal. The list is fetched
// lazily on open, never as part of the goal list, and cached briefly so
// reopening the same modal does not refetch.
func (m *Manage) OpenMembers(ctx context.Context, goalID string) ([]domain.Member, error) {
	members, err := m.fetchMembers(ctx, goalID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateLocked(ModalMembers)
	m.membersGoalID = goalID
	m.membersOpen = members
	return members, nil
}

func (m *Manage) fetchMembers(ctx context.Context, goalID string) ([]domain.Member, error) {
	if cached, ok := m.members.Get(goalID); ok {
		m.metrics.IncrCacheHit("members")
		return cached, nil
	}
	m.metrics.IncrCacheMiss("members")
	members, err := m.svc.Members(ctx, goalID)
	if err != nil {
		return nil, err
	}
	m.members.Set(goalID, members)
	return members, nil
}

// AddBudget appends a client-local budget. No request is issued.
func (m *Manage) AddBudget(b domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets = append(m.budgets, b)
}

// DeleteBudget removes a local budget; unknown IDs are a no-op.
func (m *Manage) DeleteBudget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.budgets {
		if b.ID == id {
			m.budgets = append(m.budgets[:i], m.budgets[i+1:]...)
			return
		}
	}
}

// RecordSpend adds to a budget's spent amount. Budgets are local, so this
// is the only place spent ever changes.
func (m *Manage) RecordSpend(id string, amount int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.budgets {
		if m.budgets[i].ID == id {
			m.budgets[i].Spent += amount
			return true
		}
	}
	return false
}

func (m *Manage) Budgets() []domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Budget(nil), m.budgets...)
}

func (m *Manage) CloseModals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeModalsLocked()
}

// activateLocked switches the active modal without closing the one being
// activated. Requires m.mu held.
func (m *Manage) activateLocked(kind ModalKind) {
	if m.active == ModalGoalForm && kind != ModalGoalForm {
		m.GoalForm.Close()
	}
	if m.active == ModalBudgetForm && kind != ModalBudgetForm {
		m.BudgetForm.Close()
	}
	if kind != ModalMembers {
		m.membersGoalID = ""
		m.membersOpen = nil
	}
	m.active = kind
}

// closeModalsLocked requires m.mu held.
func (m *Manage) closeModalsLocked() {
	m.active = ModalNone
	m.membersGoalID = ""
	m.membersOpen = nil
	m.GoalForm.Close()
	m.BudgetForm.Close()
}

func (m *Manage) ActiveModal() ModalKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Reset drops all state, invalidating any in-flight refresh. Budgets are
// process-local and do not survive a reset.
func (m *Manage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.goals = nil
	m.budgets = nil
	m.closeModalsLocked()
}

func (m *Manage) refreshAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := m.Refresh(ctx); err != nil {
			m.logger.Warn("background refresh failed", zap.String("container", "manage"), zap.Error(err))
		}
	}()
}

// ManageState is the rendered page snapshot.
type ManageState struct {
	Goals         []view.GoalCard   `json:"goals"`
	Budgets       []view.BudgetCard `json:"budgets"`
	ActiveModal   ModalKind         `json:"active_modal"`
	MembersGoalID string            `json:"members_goal_id,omitempty"`
	Members       []view.MemberItem `json:"members,omitempty"`
}

func (m *Manage) State() ManageState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ManageState{
		Goals:         view.NewGoalCards(m.goals),
		Budgets:       view.NewBudgetCards(m.budgets),
		ActiveModal:   m.active,
		MembersGoalID: m.membersGoalID,
		Members:       view.NewMemberList(m.membersOpen),
	}
}
