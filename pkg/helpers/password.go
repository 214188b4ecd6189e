package helpers

import "golang.org/x/crypto/bcrypt"

const passwordCost = bcrypt.DefaultCost

// HashPassword fails with bcrypt.ErrPasswordTooLong past 72 bytes.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
