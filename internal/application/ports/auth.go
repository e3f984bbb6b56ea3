package ports

import "context"

// Credentials issues signed bearer tokens for a subject.
type Credentials interface {
	Issue(userID, role string) (string, error)
}

type Auth interface {
	Login(ctx context.Context, email, password string) (string, error)
}
