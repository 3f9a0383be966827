package security

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword hashes a credential for storage. Used for staff accounts;
// patient credentials go through the legacy verbatim-comparison path.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored hash against a plaintext candidate.
func CheckPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
