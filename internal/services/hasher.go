package services

// PasswordHasher is the salted hashing primitive used by UserService.
// *cryptox.Hasher implements it.
type PasswordHasher interface {
	NewSalt() (string, error)
	Hash(password []byte, salt string) (string, error)
	Verify(encoded string, password []byte, salt string) (bool, error)
}
