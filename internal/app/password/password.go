// Package password хеширует и проверяет пароли пользователей.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// соль старой схемы: SHA2(CONCAT('salt:', password), 256) на стороне MySQL
const legacySalt = "salt:"

var legacyHashRe = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify принимает bcrypt-хеши и хеши старой схемы.
func Verify(hash, plain string) bool {
	if legacyHashRe.MatchString(hash) {
		return subtle.ConstantTimeCompare([]byte(LegacyHash(plain)), []byte(hexLower(hash))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func LegacyHash(plain string) string {
	sum := sha256.Sum256([]byte(legacySalt + plain))
	return hex.EncodeToString(sum[:])
}

// NeedsRehash сообщает, что хеш старой схемы стоит заменить на bcrypt
func NeedsRehash(hash string) bool {
	return legacyHashRe.MatchString(hash)
}

func hexLower(s string) string {
	b, err := hex.DecodeString(s)
	if err != nil {
		return s
	}
	return hex.EncodeToString(b)
}
