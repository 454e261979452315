package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/premierlux/premierlux-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Errors that are not recognized pq constraint violations pass through unchanged.
func MapPQError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return err
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "quantity_non_negative"):
		return errors.Validation(map[string]string{
			"quantity": "must not be negative",
		})

	case strings.Contains(constraint, "role_valid"):
		return errors.Validation(map[string]string{
			"role": "must be one of: owner, admin, staff",
		})

	case strings.Contains(constraint, "direction_valid"):
		return errors.Validation(map[string]string{
			"direction": "must be one of: in, out",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "items_name_branch"):
		return "an item with this name already exists in this branch"
	case strings.Contains(constraint, "batch_number"):
		return "a batch with this batch number already exists"
	case strings.Contains(constraint, "email"):
		return "a user with this email already exists"
	case strings.Contains(constraint, "suppliers_name"):
		return "a supplier with this name already exists"
	default:
		return "a record with these values already exists"
	}
}
