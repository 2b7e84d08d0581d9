package domain

// TokenKindAccess is the only token kind the admission pipeline accepts.
const TokenKindAccess = "access"

// TokenPayload is the verified claim set of a bearer credential. Required
// registered claims are promoted to fields; everything else lands in Extra.
// Immutable once produced; lives for a single request.
type TokenPayload struct {
	Subject   string
	ExpiresAt int64
	IssuedAt  int64
	Role      string
	CompanyID string
	Extra     map[string]any
}
