package ui

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

// GoalForm is the create/edit modal for savings goals. The same instance
// serves both flows: Open starts a blank create, OpenForEdit prefills from
// the remote goal and remembers its ID so Submit issues an update instead.
type GoalForm struct {
	mu  sync.Mutex
	gen uint64

	phase     Phase
	editingID string

	Title       string
	TargetText  string
	Description string
	Members     []string

	lastErr error

	goals     port.GoalDirectory
	onSuccess func()
	logger    *zap.Logger
}

func NewGoalForm(goals port.GoalDirectory, onSuccess func(), logger *zap.Logger) *GoalForm {
	return &GoalForm{goals: goals, onSuccess: onSuccess, logger: logger}
}

// Open resets the form to a blank create flow.
func (f *GoalForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.phase = PhaseOpen
}

// OpenForEdit fetches the goal and prefills the form with its current
// values. The fetch happens before the modal is considered open, so a
// NotFound surfaces immediately instead of inside a half-filled form.
func (f *GoalForm) OpenForEdit(ctx context.Context, id string) error {
	goal, err := f.goals.Get(ctx, id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.phase = PhaseOpen
	f.editingID = goal.ID
	f.Title = goal.Title
	f.TargetText = view.FormatAmountInput(goal.Target)
	f.Description = goal.Description
	for _, m := range goal.Members {
		f.Members = append(f.Members, m.Username)
	}
	return nil
}

// AddMember appends an invitee to the pending member list. Blanks and
// duplicates are ignored.
func (f *GoalForm) AddMember(email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.Members {
		if existing == email {
			return
		}
	}
	f.Members = append(f.Members, email)
}

func (f *GoalForm) RemoveMember(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.Members {
		if existing == email {
			f.Members = append(f.Members[:i], f.Members[i+1:]...)
			return
		}
	}
}

// SetFields replaces the text inputs. Member edits go through AddMember
// and RemoveMember.
func (f *GoalForm) SetFields(title, target, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Title = title
	f.TargetText = target
	f.Description = description
}

// Submit validates locally, then creates or updates the goal. Validation
// failures never reach the network. On success the form closes and the
// owning container's refresh callback fires; on a remote failure the form
// stays open with every field intact so the user can retry.
func (f *GoalForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseOpen {
		f.mu.Unlock()
		return &domain.ErrValidation{Field: "form", Message: "form is not open"}
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		err := &domain.ErrValidation{Field: "title", Message: "title is required"}
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	target, err := view.ParseAmount(f.TargetText)
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	if target <= 0 {
		verr := &domain.ErrValidation{Field: "target", Message: "target must be greater than zero"}
		f.lastErr = verr
		f.mu.Unlock()
		return verr
	}

	input := domain.GoalInput{
		Title:       title,
		Target:      target,
		Description: strings.TrimSpace(f.Description),
		Members:     append([]string(nil), f.Members...),
	}
	editingID := f.editingID
	gen := f.gen
	f.phase = PhaseSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	if editingID != "" {
		_, err = f.goals.Update(ctx, editingID, input)
	} else {
		_, err = f.goals.Create(ctx, input)
	}

	f.mu.Lock()
	if f.gen != gen {
		// Form was closed or reopened while the request was in flight.
		f.mu.Unlock()
		return err
	}
	if err != nil {
		f.phase = PhaseOpen
		f.lastErr = err
		f.mu.Unlock()
		f.logger.Warn("goal form submit failed", zap.String("editing_id", editingID), zap.Error(err))
		return err
	}
	f.reset()
	f.mu.Unlock()

	if f.onSuccess != nil {
		f.onSuccess()
	}
	return nil
}

// Close discards the form state. A submission still in flight will have
// its outcome dropped.
func (f *GoalForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *GoalForm) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *GoalForm) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID != ""
}

func (f *GoalForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// reset requires f.mu held.
func (f *GoalForm) reset() {
	f.gen++
	f.phase = PhaseClosed
	f.editingID = ""
	f.Title = ""
	f.TargetText = ""
	f.Description = ""
	f.Members = nil
	f.lastErr = nil
}
