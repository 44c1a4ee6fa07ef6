package entity

// KindUser is the entity kind users are stored under.
const KindUser = "user"

// User is the aggregate root for the account domain.
// Password holds the SHA-256 digest once persisted, never the plaintext.
//
// Profile carries any additional client fields (firstname, lastname, ...)
// which are stored as-is next to the core fields.
type User struct {
	ID       int64
	Email    string
	Username string
	Password string
	Avatar   string
	Profile  map[string]any
}
