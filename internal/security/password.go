package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain text password with bcrypt. The output is
// self-describing: algorithm, cost and salt are embedded in the hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// VerifyPassword is the boolean form used by the auth flow. A malformed
// stored hash counts as a mismatch rather than an error.
func VerifyPassword(hash, plain string) bool {
	return CheckPassword(hash, plain) == nil
}
