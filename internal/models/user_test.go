package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Role
		wantErr  bool
	}{
		{name: "empty defaults to user", input: "", expected: RoleUser},
		{name: "user", input: "user", expected: RoleUser},
		{name: "admin", input: "admin", expected: RoleAdmin},
		{name: "typo is rejected", input: "admn", wantErr: true},
		{name: "case matters", input: "Admin", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestHashPassword(t *testing.T) {
	user := &User{Email: "a@example.com", Password: "s3cret-pass"}
	require.NoError(t, user.HashPassword())

	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first := &User{Password: "same"}
	second := &User{Password: "same"}
	require.NoError(t, first.HashPassword())
	require.NoError(t, second.HashPassword())

	assert.NotEqual(t, first.Password, second.Password)
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrUpstream, "ledger unavailable", cause)

	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ledger unavailable", appErr.Message)
}

func TestClaimStatusIsDecision(t *testing.T) {
	assert.True(t, StatusAccepted.IsDecision())
	assert.True(t, StatusRejected.IsDecision())
	assert.False(t, StatusPending.IsDecision())
	assert.False(t, ClaimStatus("closed").IsDecision())
}
