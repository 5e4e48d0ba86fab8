package members

import "context"

type Repository interface {
	Create(ctx context.Context, input Input) (*Member, error)
	// Update replaces every writable field. found is false when no row has id.
	Update(ctx context.Context, id int64, input Input) (member *Member, found bool, err error)
	List(ctx context.Context) ([]Member, error)
	// GetByID leaves the interests column encoded.
	GetByID(ctx context.Context, id int64) (record *Record, found bool, err error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}
