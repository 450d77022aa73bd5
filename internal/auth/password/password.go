package password

import (
	"github.com/alexedwards/argon2id"
)

// Hasher derives salted Argon2id digests. The pepper is appended to the
// plaintext before hashing, so a leaked database alone is not enough to
// mount an offline attack.
type Hasher struct {
	pepper string
	params *argon2id.Params
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper, params: argon2id.DefaultParams}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext+h.pepper, h.params)
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// verification failure, not an error: the caller must not be able to tell
// a corrupt stored hash apart from a wrong password.
func (h *Hasher) Verify(plaintext, digest string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plaintext+h.pepper, digest)
	if err != nil {
		return false
	}
	return ok
}
