package auth

import (
	"cool-chat/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"Valid request", RegisterRequest{"alice_01", "ComplexPass123!"}, nil},
		{"Login too short", RegisterRequest{"al", "ComplexPass123!"}, errors.ErrInvalidLogin},
		{"Login with spaces", RegisterRequest{"al ice", "ComplexPass123!"}, errors.ErrInvalidLogin},
		{"Password too short", RegisterRequest{"alice", "Sh0rt!"}, errors.ErrInvalidPassword},
		{"Missing digit", RegisterRequest{"alice", "NoDigitPass!"}, errors.ErrInvalidPassword},
		{"Missing special char", RegisterRequest{"alice", "NoSpecialChar123"}, errors.ErrInvalidPassword},
		{"Missing uppercase", RegisterRequest{"alice", "nouppercase123!"}, errors.ErrInvalidPassword},
		{"Password too long", RegisterRequest{"alice", strings.Repeat("a", 73)}, errors.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	req := require.New(t)
	req.NoError(ValidateLogin(LoginRequest{"alice", "whatever"}))
	req.ErrorIs(ValidateLogin(LoginRequest{"", "whatever"}), errors.ErrInvalidCredentials)
	req.ErrorIs(ValidateLogin(LoginRequest{"alice", ""}), errors.ErrInvalidCredentials)
}
