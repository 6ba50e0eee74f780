package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clientus/portal/internal/domain/auth"
)

func TestCreateAccountRequest_Validate_Defaults(t *testing.T) {
	req := CreateAccountRequest{Name: "Empresa ABC", Email: "contato@empresaabc.com"}

	err := req.Validate()

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleClient, req.Role)
	assert.Equal(t, domainauth.StatusPending, req.Status)
}

func TestCreateAccountRequest_Validate_Errors(t *testing.T) {
	cases := []struct {
		name string
		req  CreateAccountRequest
		want string
	}{
		{"missing name", CreateAccountRequest{Email: "a@b.com"}, "name is required"},
		{"name too long", CreateAccountRequest{Name: strings.Repeat("a", 256), Email: "a@b.com"}, "name cannot exceed 255"},
		{"missing email", CreateAccountRequest{Name: "x"}, "email is required"},
		{"bad email", CreateAccountRequest{Name: "x", Email: "not-an-email"}, "email is not a valid address"},
		{"guest role rejected", CreateAccountRequest{Name: "x", Email: "a@b.com", Role: domainauth.RoleGuest}, "role must be admin or client"},
		{"bad status", CreateAccountRequest{Name: "x", Email: "a@b.com", Status: "banned"}, "invalid status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestUpdateAccountRequest_Validate(t *testing.T) {
	empty := UpdateAccountRequest{}
	err := empty.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one field")

	name := "Novo Nome"
	assert.NoError(t, (&UpdateAccountRequest{Name: &name}).Validate())

	badEmail := "nope"
	require.Error(t, (&UpdateAccountRequest{Email: &badEmail}).Validate())

	badStatus := domainauth.AccountStatus("banned")
	require.Error(t, (&UpdateAccountRequest{Status: &badStatus}).Validate())

	// VisibleMetrics alone counts as an update
	assert.NoError(t, (&UpdateAccountRequest{VisibleMetrics: []string{MetricClicks}}).Validate())
}
