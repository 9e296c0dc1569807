package domain

import (
	"fmt"
	"regexp"
)

// Shipping fee is a step function of the product total: flat below the
// threshold, free at or above it.
const (
	FreeShippingThreshold int64 = 50000
	ShippingFee           int64 = 3000
)

func CalculateShippingFee(totalPrice int64) int64 {
	if totalPrice >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

// RemainingForFreeShipping returns how much more the cart needs before
// shipping becomes free, zero if it already is.
func RemainingForFreeShipping(totalPrice int64) int64 {
	if totalPrice >= FreeShippingThreshold {
		return 0
	}
	return FreeShippingThreshold - totalPrice
}

const (
	RecipientNameMinLength = 2
	RecipientNameMaxLength = 50
	AddressMinLength       = 5
	AddressMaxLength       = 200
	AddressDetailMinLength = 2
	AddressDetailMaxLength = 200
	OrderNoteMaxLength     = 200
)

var (
	phoneRegexp      = regexp.MustCompile(`^010-\d{3,4}-\d{4}$`)
	postalCodeRegexp = regexp.MustCompile(`^\d{5}$`)
)

// ShippingAddress is persisted on the order as a JSONB document.
type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
}

func (a ShippingAddress) Validate() error {
	if n := len([]rune(a.RecipientName)); n < RecipientNameMinLength || n > RecipientNameMaxLength {
		return fmt.Errorf("recipient name must be %d to %d characters", RecipientNameMinLength, RecipientNameMaxLength)
	}
	if !phoneRegexp.MatchString(a.Phone) {
		return fmt.Errorf("phone must match 010-0000-0000")
	}
	if !postalCodeRegexp.MatchString(a.PostalCode) {
		return fmt.Errorf("postal code must be 5 digits")
	}
	if n := len([]rune(a.Address)); n < AddressMinLength || n > AddressMaxLength {
		return fmt.Errorf("address must be %d to %d characters", AddressMinLength, AddressMaxLength)
	}
	if n := len([]rune(a.AddressDetail)); n < AddressDetailMinLength || n > AddressDetailMaxLength {
		return fmt.Errorf("address detail must be %d to %d characters", AddressDetailMinLength, AddressDetailMaxLength)
	}
	return nil
}
