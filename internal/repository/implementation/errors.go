package implementation

import (
	"errors"
	"fmt"

	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translateError maps driver errors the services care about onto contract
// errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", contract.ErrDuplicateKey, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateKey
	}
	return err
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
