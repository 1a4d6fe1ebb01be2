package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token firmado para una cuenta (login/registro).
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}
