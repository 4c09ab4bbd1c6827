package application

import (
	"context"
	"time"

	"github.com/sglre6355/shaken/internal/modules/builtin/domain"
	"github.com/sglre6355/shaken/internal/user"
)

// lookupTimeout bounds a store lookup on the dispatch path.
const lookupTimeout = 2 * time.Second

// UserLookup finds users by display name.
type UserLookup interface {
	ByName(ctx context.Context, name string) (user.User, bool)
}

// WhoisInteractor handles the whois use case.
type WhoisInteractor struct {
	users UserLookup
}

// NewWhoisInteractor creates a new WhoisInteractor.
func NewWhoisInteractor(users UserLookup) *WhoisInteractor {
	return &WhoisInteractor{users: users}
}

// Execute describes the user known as name.
func (w *WhoisInteractor) Execute(name string) string {
	name = domain.NormalizeName(name)
	if name == "" {
		return domain.WhoisUsage
	}
	if w.users == nil {
		return domain.DescribeUnknown(name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	u, ok := w.users.ByName(ctx, name)
	if !ok {
		return domain.DescribeUnknown(name)
	}
	return domain.DescribeUser(u)
}
