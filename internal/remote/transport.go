package remote

import "context"

// Transport is one live session with the archive. Implementations do not
// retry; Client does.
type Transport interface {
	Login(user, password string) error
	NameList(path string) ([]string, error)
	Retrieve(path string) ([]byte, error)
	Quit() error
}

// Dialer opens a new, not yet authenticated session.
type Dialer func(ctx context.Context, addr string) (Transport, error)

// Credentials are re-applied on every reconnect. An empty User logs in
// anonymously.
type Credentials struct {
	User     string
	Password string
}

const (
	anonymousUser     = "anonymous"
	anonymousPassword = "anonymous@"
)

func (c Credentials) resolve() (string, string) {
	if c.User == "" {
		return anonymousUser, anonymousPassword
	}
	return c.User, c.Password
}
