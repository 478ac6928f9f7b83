package cli

import (
	"errors"
	"testing"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	domainsvcs "github.com/ghuser/stockledger/services/inventory/domain/services"
)

func TestAddForm_Parse(t *testing.T) {
	in, err := addForm{Name: "  Olive Oil ", Quantity: "25", Price: "89.99"}.parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.name != "Olive Oil" || in.quantity != 25 || in.price.String() != "89.99" {
		t.Errorf("unexpected input %+v", in)
	}

	tests := []struct {
		name string
		form addForm
	}{
		{"empty name", addForm{Name: " ", Quantity: "1", Price: "1"}},
		{"quantity not a number", addForm{Name: "x", Quantity: "ten", Price: "1"}},
		{"price not numeric", addForm{Name: "x", Quantity: "1", Price: "1,50"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.form.parse(); !errors.Is(err, itemdomain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAdjustForm_Parse(t *testing.T) {
	in, err := adjustForm{Term: "Mango", Mode: "-", Amount: "7"}.parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.term != "Mango" || in.mode != domainsvcs.AdjustSubtract || in.amount != 7 {
		t.Errorf("unexpected input %+v", in)
	}

	if _, err := (adjustForm{Mode: "set", Amount: "1"}).parse(); !errors.Is(err, itemdomain.ErrValidation) {
		t.Errorf("missing item: expected ErrValidation, got %v", err)
	}
	if _, err := (adjustForm{Term: "Mango", Mode: "twice", Amount: "1"}).parse(); !errors.Is(err, itemdomain.ErrValidation) {
		t.Errorf("bad mode: expected ErrValidation, got %v", err)
	}
}
