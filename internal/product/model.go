package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeElectronics Type = "ELECTRONICS"
	TypeFurniture   Type = "FURNITURE"
	TypeClothing    Type = "CLOTHING"
	TypeFood        Type = "FOOD"
	TypeOther       Type = "OTHER"
)

var Types = []Type{TypeElectronics, TypeFurniture, TypeClothing, TypeFood, TypeOther}

func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
}

type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Type  Type            `json:"type"`
}

// NewProduct is what the add-product form collects.
type NewProduct struct {
	Name  string
	Price decimal.Decimal
	Stock int
	Type  Type
}

// createRequest is the wire body for POST /api/products/new. Price goes out
// as a JSON number.
type createRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	Type  Type    `json:"type"`
}
