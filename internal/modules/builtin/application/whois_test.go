package application

import (
	"context"
	"strings"
	"testing"

	"github.com/sglre6355/shaken/internal/color"
	"github.com/sglre6355/shaken/internal/user"
)

type mockUserLookup struct {
	users  map[string]user.User
	lookup []string
}

func (m *mockUserLookup) ByName(_ context.Context, name string) (user.User, bool) {
	m.lookup = append(m.lookup, name)
	u, ok := m.users[strings.ToLower(name)]
	return u, ok
}

func TestWhoisInteractor_Execute(t *testing.T) {
	users := &mockUserLookup{users: map[string]user.User{
		"museun": {ID: 23196011, Display: "museun", Color: color.MustParse("#00ff7f")},
	}}
	interactor := NewWhoisInteractor(users)

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "known", arg: "museun", want: "museun (id 23196011) uses color #00ff7f"},
		{name: "mention", arg: "@Museun", want: "museun (id 23196011) uses color #00ff7f"},
		{name: "unknown", arg: "nobody", want: "I haven't seen nobody yet"},
		{name: "missing name", arg: "  ", want: "usage: !whois <name>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interactor.Execute(tt.arg); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if len(users.lookup) != 3 {
		t.Errorf("expected 3 lookups, got %d", len(users.lookup))
	}
}

func TestWhoisInteractor_NilStore(t *testing.T) {
	interactor := NewWhoisInteractor(nil)

	if got := interactor.Execute("museun"); got != "I haven't seen museun yet" {
		t.Errorf("unexpected result %q", got)
	}
}
