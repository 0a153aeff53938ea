package auth

import "travelviet/internal/domain/models"

// JWTVerifier validates bearer tokens issued by Supabase Auth.
// An interface so middleware tests can substitute a stub verifier.
type JWTVerifier interface {
	// VerifyToken validates a JWT string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an
	// invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
