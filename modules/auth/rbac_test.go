package auth

import (
	"testing"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		email string
		want  user.Role
	}{
		{"alice@doc.com", user.RoleDoctor},
		{"bob@example.com", user.RolePatient},
		{"carol@doc.com.evil.com", user.RolePatient},
		{"dave@DOC.com", user.RolePatient},
		{"@doc.com", user.RoleDoctor},
		{"", user.RolePatient},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := DeriveRole(tt.email); got != tt.want {
				t.Errorf("DeriveRole(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestAllow(t *testing.T) {
	tests := []struct {
		name      string
		claimed   user.Role
		permitted []user.Role
		want      bool
	}{
		{"doctor allowed on doctor route", user.RoleDoctor, []user.Role{user.RoleDoctor}, true},
		{"patient denied on doctor route", user.RolePatient, []user.Role{user.RoleDoctor}, false},
		{"patient allowed when listed", user.RolePatient, []user.Role{user.RoleDoctor, user.RolePatient}, true},
		{"empty set denies doctor", user.RoleDoctor, nil, false},
		{"empty set denies patient", user.RolePatient, nil, false},
		{"unknown role denied", user.Role("ADMIN"), []user.Role{user.RoleDoctor, user.RolePatient}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allow(tt.claimed, tt.permitted...); got != tt.want {
				t.Errorf("Allow(%v, %v) = %v, want %v", tt.claimed, tt.permitted, got, tt.want)
			}
		})
	}
}
