package identity

import (
	"errors"
	"strings"

	identityerrors "go-faceattend/internal/identity/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return identityerrors.ErrIdentityNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_identity_name":
				return identityerrors.ErrNameAlreadyExists
			case "uq_identity_employee_id":
				return identityerrors.ErrEmployeeIDAlreadyExists
			}
		}
	}

	// Fallback for drivers that flatten pg errors into plain strings
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_identity_employee_id") {
			return identityerrors.ErrEmployeeIDAlreadyExists
		}
		if strings.Contains(errMsg, "uq_identity_name") {
			return identityerrors.ErrNameAlreadyExists
		}
	}

	return err
}
