package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
	domainsvcs "github.com/ghuser/stockledger/services/inventory/domain/services"
)

// addForm is the raw operator input for a new item. Range checks stay in the
// domain; the form only checks shape.
type addForm struct {
	Name     string `json:"name"     validate:"required"`
	Quantity string `json:"quantity" validate:"required,number"`
	Price    string `json:"price"    validate:"required,numeric"`
}

type addInput struct {
	name     string
	quantity int
	price    decimal.Decimal
}

func (f addForm) parse() (addInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Quantity = strings.TrimSpace(f.Quantity)
	f.Price = strings.TrimSpace(f.Price)
	if err := pkgvalidator.Validate(&f); err != nil {
		return addInput{}, formError(err)
	}
	qty, err := strconv.Atoi(f.Quantity)
	if err != nil {
		return addInput{}, fmt.Errorf("%w: quantity: %w", itemdomain.ErrInvalidQuantity, err)
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return addInput{}, fmt.Errorf("%w: price: %w", itemdomain.ErrInvalidPrice, err)
	}
	return addInput{name: f.Name, quantity: qty, price: price}, nil
}

// adjustForm is the raw operator input for a quantity update.
type adjustForm struct {
	Term   string `json:"item"   validate:"required"`
	Mode   string `json:"mode"   validate:"required"`
	Amount string `json:"amount" validate:"required,number"`
}

type adjustInput struct {
	term   string
	mode   domainsvcs.AdjustMode
	amount int
}

func (f adjustForm) parse() (adjustInput, error) {
	f.Term = strings.TrimSpace(f.Term)
	f.Mode = strings.TrimSpace(f.Mode)
	f.Amount = strings.TrimSpace(f.Amount)
	if err := pkgvalidator.Validate(&f); err != nil {
		return adjustInput{}, formError(err)
	}
	mode, err := domainsvcs.ParseAdjustMode(f.Mode)
	if err != nil {
		return adjustInput{}, err
	}
	amount, err := strconv.Atoi(f.Amount)
	if err != nil {
		return adjustInput{}, fmt.Errorf("%w: amount: %w", itemdomain.ErrInvalidQuantity, err)
	}
	return adjustInput{term: f.Term, mode: mode, amount: amount}, nil
}

func formError(err error) error {
	return fmt.Errorf("%w: %s", itemdomain.ErrValidation, strings.ReplaceAll(pkgvalidator.Summary(err), "\n", "; "))
}
