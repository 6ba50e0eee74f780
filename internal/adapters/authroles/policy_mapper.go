package authroles

import (
	domainauth "github.com/clientus/portal/internal/domain/auth"
)

// PolicyRoleMapper enforces the portal role policy: demo accounts keep the
// role assigned in the account table, while identities resolved through the
// external provider are always clients. Unknown or invalid roles collapse to
// guest.
type PolicyRoleMapper struct{}

func (PolicyRoleMapper) Map(identity domainauth.Identity) domainauth.Role {
	if identity.Source == domainauth.SourceProvider {
		return domainauth.RoleClient
	}
	if identity.Role.Valid() {
		return identity.Role
	}
	return domainauth.RoleGuest
}
