// Package port defines the interfaces decoupling the UI layer from concrete
// implementations, following the hexagonal layout: containers and modals
// talk to ports, services implement them, tests substitute mocks.
package port

import (
	"context"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
)

// Requester is the HTTP Client Adapter contract: one request, raw body or a
// typed domain error. Implemented by infra/api.Client.
type Requester interface {
	Do(ctx context.Context, method, path string, body any, authed bool) ([]byte, error)
}

// GoalDirectory exposes every remote savings-goal operation. Implemented by
// service.GoalService. Methods perform no input validation (that is the
// calling form's job) and never swallow errors.
type GoalDirectory interface {
	List(ctx context.Context) ([]domain.SavingsGoal, error)
	Get(ctx context.Context, id string) (*domain.SavingsGoal, error)
	Create(ctx context.Context, input domain.GoalInput) (*domain.SavingsGoal, error)
	Update(ctx context.Context, id string, input domain.GoalInput) (*domain.SavingsGoal, error)
	Delete(ctx context.Context, id string) error
	Deposit(ctx context.Context, id string, amount int64) (*domain.SavingsGoal, error)
	Members(ctx context.Context, id string) ([]domain.Member, error)
	DropdownOptions(ctx context.Context) ([]domain.DropdownOption, error)
}

// Authenticator exposes the remote auth operations plus local logout.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Logout()
}

// ReceiptScanner extracts transaction fields from a receipt image. The only
// implementation today is the mock in internal/ocr; a real extraction
// backend slots in behind this interface with no caller changes.
type ReceiptScanner interface {
	Extract(ctx context.Context, filename string, image []byte) (*domain.ReceiptExtraction, error)
}

// MemberCache caches member lists per goal so an open modal does not refetch
// on every render. Implemented by infra/cache.
type MemberCache interface {
	Get(key string) ([]domain.Member, bool)
	Set(key string, value []domain.Member)
	Flush()
}
