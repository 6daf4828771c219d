package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes password+pepper with bcrypt. The pepper is a
// deployment-wide secret from config; it never reaches the database.
func HashPassword(password, pepper string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func MustHashPassword(password, pepper string) string {
	hash, err := HashPassword(password, pepper)
	if err != nil {
		panic(err)
	}
	return hash
}

func CheckPassword(hash, password, pepper string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+pepper)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
