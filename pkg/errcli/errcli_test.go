package errcli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/subcommands"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

func TestWriteError_ExitStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus subcommands.ExitStatus
	}{
		{"ErrItemNotFound", itemdomain.ErrItemNotFound, subcommands.ExitFailure},
		{"ErrDuplicateName", itemdomain.ErrDuplicateName, subcommands.ExitUsageError},
		{"ErrInvalidItemName", itemdomain.ErrInvalidItemName, subcommands.ExitUsageError},
		{"ErrInvalidQuantity", itemdomain.ErrInvalidQuantity, subcommands.ExitUsageError},
		{"ErrInvalidPrice", itemdomain.ErrInvalidPrice, subcommands.ExitUsageError},
		{"wrapped ErrItemNotFound", fmt.Errorf("find: %w", itemdomain.ErrItemNotFound), subcommands.ExitFailure},
		{"factory error", fmt.Errorf("%w: %w: too long", itemdomain.ErrValidation, itemdomain.ErrInvalidItemName), subcommands.ExitUsageError},
		{"corrupt snapshot", itemdomain.ErrCorruptSnapshot, subcommands.ExitFailure},
		{"unknown error", errors.New("disk full"), subcommands.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := WriteError(&buf, tt.err); got != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func TestWriteError_Output(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, fmt.Errorf("%w: %w: name must be at least 1 character", itemdomain.ErrValidation, itemdomain.ErrInvalidItemName))

	want := "error: invalid item name: name must be at least 1 character\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestExpected(t *testing.T) {
	if !Expected(fmt.Errorf("%w: %q", itemdomain.ErrItemNotFound, "Kiwi")) {
		t.Error("not found should be expected")
	}
	if !Expected(itemdomain.ErrDuplicateName) {
		t.Error("duplicate name should be expected")
	}
	if Expected(errors.New("permission denied")) {
		t.Error("unknown error should not be expected")
	}
	if Expected(itemdomain.ErrCorruptSnapshot) {
		t.Error("corrupt snapshot should not be expected")
	}
}
