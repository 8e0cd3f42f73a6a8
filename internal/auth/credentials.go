// Package auth provides the shared-code login gate and session tokens.
package auth

import "errors"

var (
	// ErrWrongCode is returned when the name is unknown or the code
	// does not match.
	ErrWrongCode = errors.New("wrong code")
)

// Credentials is the fixed user table: name to shared access code.
// Codes are compared by exact string equality. No hashing, no rate
// limiting, no lockout: a deliberate simplification for a small fixed
// group, not a security boundary.
type Credentials struct {
	users map[string]string
}

// NewCredentials creates a credential store from the configured user table.
func NewCredentials(users map[string]string) *Credentials {
	return &Credentials{users: users}
}

// Authenticate checks the name and code against the user table.
func (c *Credentials) Authenticate(name, code string) error {
	stored, ok := c.users[name]
	if !ok || stored != code {
		return ErrWrongCode
	}
	return nil
}

// Users returns the known user names, for the login form selector.
func (c *Credentials) Users() []string {
	names := make([]string, 0, len(c.users))
	for name := range c.users {
		names = append(names, name)
	}
	return names
}
