package auth

// Claims representa la información extraída del token.
// El payload solo lleva el identificador de la cuenta.
type Claims struct {
	UserID string
}
