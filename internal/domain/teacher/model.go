package teacher

// Credential is one teacher login record from the credential file.
// A field missing from the file is left empty and never matches.
type Credential struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// HasUsername reports whether this credential belongs to username.
// INVARIANT: Credential fields are not mutated
func (c Credential) HasUsername(username string) bool {
	return c.Username != "" && c.Username == username
}

// Matches reports whether username and password both equal this credential.
// Passwords are compared as stored; the credential file holds them in plaintext.
// INVARIANT: Credential fields are not mutated
func (c Credential) Matches(username, password string) bool {
	return c.HasUsername(username) && c.Password != "" && c.Password == password
}
