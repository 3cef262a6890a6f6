package ports

// PasswordHasher turns a plaintext password into an opaque salted hash.
// The per-call salt is embedded in the output, nothing is stored besides
// the hash itself.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
