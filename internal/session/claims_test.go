package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/salabelleza/agenda-console/internal/model"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDeriveUser_ResponseProfileWins(t *testing.T) {
	res := LoginResponse{
		Token: signToken(t, jwt.MapClaims{"rol": "RECEPCION", "correo": "otro@salon.test"}),
		User:  &model.User{ID: 9, Username: "ana", Role: "ADMIN"},
	}
	got := DeriveUser(res, "typed-name")
	require.Equal(t, model.User{ID: 9, Username: "ana", Role: "ADMIN"}, got)
}

func TestDeriveUser_TokenFillsGaps(t *testing.T) {
	res := LoginResponse{
		Token: signToken(t, jwt.MapClaims{"id": float64(12), "rol": "ADMIN", "correo": "ana@salon.test"}),
	}
	got := DeriveUser(res, "ana")
	require.Equal(t, int64(12), got.ID)
	require.Equal(t, "ADMIN", got.Role)
	require.Equal(t, "ana@salon.test", got.Email)
	require.Equal(t, model.StateActive, got.State)
}

func TestDeriveUser_FallsBackToTypedUsername(t *testing.T) {
	got := DeriveUser(LoginResponse{Token: "not-a-jwt"}, "ana")
	require.Equal(t, "ana", got.Username)
	require.Equal(t, "ana", got.Name)
	require.Equal(t, "ana", got.Email)
}

func TestInferUserFromToken_RoleKeyOrder(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		role   string
	}{
		{"rol", jwt.MapClaims{"rol": "ADMIN", "role": "ignored", "sub": "a"}, "ADMIN"},
		{"role", jwt.MapClaims{"role": "RECEPCION", "sub": "a"}, "RECEPCION"},
		{"authorities head", jwt.MapClaims{"authorities": []any{"ROLE_ADMIN", "ROLE_X"}, "sub": "a"}, "ROLE_ADMIN"},
		{"roles head", jwt.MapClaims{"roles": []any{"ADMIN"}, "sub": "a"}, "ADMIN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, ok := InferUserFromToken(signToken(t, tc.claims))
			require.True(t, ok)
			require.Equal(t, tc.role, u.Role)
		})
	}
}

func TestInferUserFromToken_EmailPrefersCorreoOverSub(t *testing.T) {
	u, ok := InferUserFromToken(signToken(t, jwt.MapClaims{"correo": "ana@salon.test", "sub": "ana"}))
	require.True(t, ok)
	require.Equal(t, "ana@salon.test", u.Email)

	u, ok = InferUserFromToken(signToken(t, jwt.MapClaims{"sub": "ana"}))
	require.True(t, ok)
	require.Equal(t, "ana", u.Email)
}

func TestInferUserFromToken_Rejects(t *testing.T) {
	_, ok := InferUserFromToken("")
	require.False(t, ok)

	_, ok = InferUserFromToken("garbage.token.here")
	require.False(t, ok)

	// A payload with nothing usable is not a profile.
	_, ok = InferUserFromToken(signToken(t, jwt.MapClaims{"exp": float64(9999999999)}))
	require.False(t, ok)
}
