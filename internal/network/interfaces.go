package network

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import "context"

// Prober checks that the gateway answers.
type Prober interface {
	TestConnection(ctx context.Context) error
}
