package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over a shared pool.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		User:  newPgxUserRepository(db),
		Image: newPgxImageRepository(db),
	}
}
