package model

const (
	UsersCollection = "users"

	PhoneField    = "phone"
	PasswordField = "password"
)

// Credentials is the login request body. Fields keep their raw JSON values
// so a number never matches a string.
type Credentials struct {
	Phone    any
	Password any
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  Record `json:"user"`
}

// PublicUser strips the password from a stored user record.
func PublicUser(u Record) Record {
	return u.Without(PasswordField)
}
