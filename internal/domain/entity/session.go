package entity

import "time"

// Session respalda un token emitido. Borrarla invalida el token aunque su firma siga vigente.
type Session struct {
	ID        string
	UserID    string
	TokenID   string // correlativo opaco; viaja en el claim jti del token
	ExpiresAt time.Time
	CreatedAt time.Time

	// User se completa con el join de FindByTokenID.
	User *User
}

// Expired informa si la sesión venció en now. Es válida mientras now <= ExpiresAt.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
