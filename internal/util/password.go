package util

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost trades login latency for brute-force resistance on
// operator accounts.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword hashes an operator password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies an operator password against its stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
