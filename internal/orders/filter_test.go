package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddlefit/oms/internal/rbac"
)

func strPtr(s string) *string { return &s }

func TestApplyFitterScope(t *testing.T) {
	tests := []struct {
		name string
		user *rbac.AuthenticatedUser
		in   ListFilters
		want *string
	}{
		{
			name: "fitter without filter gets own username",
			user: &rbac.AuthenticatedUser{ID: 1, Username: "jane.fitter", Role: rbac.RoleFitter},
			want: strPtr("jane.fitter"),
		},
		{
			name: "fitter supplied filter is kept",
			user: &rbac.AuthenticatedUser{ID: 1, Username: "jane.fitter", Role: rbac.RoleFitter},
			in:   ListFilters{FitterUsername: strPtr("bob.fitter")},
			want: strPtr("bob.fitter"),
		},
		{
			name: "empty supplied filter counts as absent",
			user: &rbac.AuthenticatedUser{ID: 1, Username: "jane.fitter", Role: rbac.RoleFitter},
			in:   ListFilters{FitterUsername: strPtr("")},
			want: strPtr("jane.fitter"),
		},
		{
			name: "admin is not scoped",
			user: &rbac.AuthenticatedUser{ID: 2, Username: "jane.fitter", Role: rbac.RoleAdmin},
		},
		{
			name: "supervisor is not scoped",
			user: &rbac.AuthenticatedUser{ID: 3, Username: "sam", Role: rbac.RoleSupervisor},
		},
		{
			name: "supplier is not scoped",
			user: &rbac.AuthenticatedUser{ID: 4, Username: "sup", Role: rbac.RoleSupplier},
		},
		{
			name: "fitter with empty username",
			user: &rbac.AuthenticatedUser{ID: 5, Username: "", Role: rbac.RoleFitter},
		},
		{
			name: "fitter with blank username",
			user: &rbac.AuthenticatedUser{ID: 5, Username: "   ", Role: rbac.RoleFitter},
		},
		{
			name: "missing role",
			user: &rbac.AuthenticatedUser{ID: 6, Username: "jane.fitter"},
		},
		{
			name: "no user",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFitterScope(tt.user, tt.in)
			if tt.want == nil {
				assert.Equal(t, tt.in, got)
				return
			}
			require.NotNil(t, got.FitterUsername)
			assert.Equal(t, *tt.want, *got.FitterUsername)
		})
	}
}

func TestApplyFitterScopeKeepsOtherFilters(t *testing.T) {
	status := StatusOrdered
	customer := int64(9)
	in := ListFilters{Page: 2, Limit: 10, Search: "dressage", Status: &status, CustomerID: &customer}

	got := ApplyFitterScope(&rbac.AuthenticatedUser{Username: "jane.fitter", Role: rbac.RoleFitter}, in)

	assert.Equal(t, "jane.fitter", *got.FitterUsername)
	assert.Nil(t, in.FitterUsername)
	got.FitterUsername = nil
	assert.Equal(t, in, got)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusOrdered))
	assert.True(t, CanTransition(StatusApproved, StatusCancelled))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
	assert.False(t, CanTransition(StatusDraft, StatusApproved))
	assert.False(t, CanTransition(StatusDelivered, StatusDraft))
	assert.True(t, StatusCancelled.Final())
	assert.True(t, StatusDelivered.Final())
	assert.False(t, StatusInProduction.Final())

	st, ok := ParseStatus(" in_production ")
	assert.True(t, ok)
	assert.Equal(t, StatusInProduction, st)
	_, ok = ParseStatus("LOST")
	assert.False(t, ok)
}
