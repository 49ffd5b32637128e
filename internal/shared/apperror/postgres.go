package apperror

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE class prefixes / codes mapped to the taxonomy.
var pgCodeTaxonomy = map[string]string{
	"23505": CodeConflict,    // unique_violation
	"23503": CodeValidation,  // foreign_key_violation
	"23514": CodeValidation,  // check_violation
	"23502": CodeValidation,  // not_null_violation
	"40001": CodeConflict,    // serialization_failure
	"57P01": CodeNetwork,     // admin_shutdown
	"08000": CodeNetwork,     // connection_exception
	"08006": CodeNetwork,     // connection_failure
	"53300": CodeServerError, // too_many_connections
	"42P01": CodeServerError, // undefined_table
	"22P02": CodeValidation,  // invalid_text_representation
}

var taxonomyHTTPStatus = map[string]int{
	CodeValidation:  http.StatusBadRequest,
	CodeConflict:    http.StatusConflict,
	CodeNetwork:     http.StatusServiceUnavailable,
	CodeServerError: http.StatusInternalServerError,
}

// FromPostgres classifies a database error via the static SQLSTATE lookup.
// Anything unrecognized comes back as SERVER_ERROR with the original wrapped.
func FromPostgres(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodeTaxonomy[pgErr.Code]; ok {
			return Wrap(err, code, message, taxonomyHTTPStatus[code])
		}
	}

	return Wrap(err, CodeServerError, message, http.StatusInternalServerError)
}
