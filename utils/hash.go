// Package utils holds the password hashing helpers used by admin auth.
package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes with a fixed cost of 14; admin logins are rare
// enough that the extra work factor is affordable.
func HashPassword(p string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(p), 14)
	return string(bytes), err
}

func CheckPassword(hash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	return err == nil
}
