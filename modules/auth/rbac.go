package auth

import (
	"strings"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

// DoctorEmailSuffix is the reserved domain suffix that marks doctor accounts.
const DoctorEmailSuffix = "@doc.com"

// DeriveRole decides the role from the email address. This is the single
// authoritative derivation: addresses under the reserved doctor domain become
// DOCTOR, everything else PATIENT.
func DeriveRole(email string) user.Role {
	if strings.HasSuffix(email, DoctorEmailSuffix) {
		return user.RoleDoctor
	}
	return user.RolePatient
}

// Allow reports whether the claimed role is a member of the permitted set.
// An empty permitted set denies every ordinary role.
func Allow(claimed user.Role, permitted ...user.Role) bool {
	for _, p := range permitted {
		if claimed == p {
			return true
		}
	}
	return false
}
