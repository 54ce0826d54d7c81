package auth

// Claims representa la identidad extraída del token.
// UserID es el "uid" que particiona todos los datos del usuario.
type Claims struct {
	UserID string
	Email  string
}
