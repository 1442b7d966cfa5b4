package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash is a valid bcrypt digest compared against when a login names an
// unknown account, so both branches cost one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// VerifyPasswordTimed behaves like VerifyPassword but always performs the
// bcrypt comparison even when no stored hash exists, to equalize timing
// between unknown-user and wrong-password failures.
func VerifyPasswordTimed(hash, plain string) bool {
	h := hash
	if h == "" {
		h = dummyHash
	}
	ok := bcrypt.CompareHashAndPassword([]byte(h), []byte(plain)) == nil
	return ok && hash != ""
}
