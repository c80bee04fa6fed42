package institution

import "context"

// Repository provides read access to registered institutions.
type Repository interface {
	GetAll(ctx context.Context) ([]Institution, error)
	GetByID(ctx context.Context, id string) (*Institution, error)
}
