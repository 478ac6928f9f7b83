// Package errcli maps domain sentinel errors to process exit statuses.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errcli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

const validationPrefix = "validation error: "

// WriteError prints err to w and returns the matching exit status.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to ExitFailure for unrecognized errors.
func WriteError(w io.Writer, err error) subcommands.ExitStatus {
	fmt.Fprintf(w, "error: %s\n", Message(err))
	return mapErrorToStatus(err)
}

// Message returns the operator-facing text of err. The generic validation
// prefix is dropped since the specific kind follows it.
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), validationPrefix)
}

// Expected reports whether err is an ordinary rejection of operator input
// rather than a fault worth reporting.
func Expected(err error) bool {
	return errors.Is(err, itemdomain.ErrItemNotFound) || mapErrorToStatus(err) == subcommands.ExitUsageError
}

func mapErrorToStatus(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return subcommands.ExitFailure
	case errors.Is(err, itemdomain.ErrDuplicateName),
		errors.Is(err, itemdomain.ErrInvalidItemName),
		errors.Is(err, itemdomain.ErrInvalidQuantity),
		errors.Is(err, itemdomain.ErrInvalidPrice),
		errors.Is(err, itemdomain.ErrValidation):
		return subcommands.ExitUsageError
	default:
		return subcommands.ExitFailure
	}
}
