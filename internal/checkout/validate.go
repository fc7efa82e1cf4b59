package checkout

import (
	"regexp"
	"strings"

	"github.com/drstein77/storefront/internal/validation"
)

var (
	zipRe        = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
)

type GuestForm struct {
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
}

func (f GuestForm) Validate() error {
	errs := validation.FieldErrors{}
	if !strings.Contains(f.Email, "@") {
		errs["email"] = "Valid email is required."
	}
	if validation.Blank(f.FullName) {
		errs["fullName"] = "Full name is required."
	}
	if validation.Blank(f.Address) {
		errs["address"] = "Address is required."
	}
	if validation.Blank(f.City) {
		errs["city"] = "City is required."
	}
	if validation.Blank(f.State) {
		errs["state"] = "State is required."
	}
	if !zipRe.MatchString(f.Zip) {
		errs["zip"] = "Valid ZIP code is required."
	}
	if validation.Blank(f.CardName) {
		errs["cardName"] = "Name on card is required."
	}
	if !cardNumberRe.MatchString(f.CardNumber) {
		errs["cardNumber"] = "Valid 16-digit card number is required."
	}
	if !expiryRe.MatchString(f.Expiry) {
		errs["expiry"] = "Valid expiry date (MM/YY) is required."
	}
	if !cvcRe.MatchString(f.CVC) {
		errs["cvc"] = "Valid CVC is required."
	}
	return errs.Err()
}

// ShippingAddress is the one-line address shown on the confirmation.
func (f GuestForm) ShippingAddress() string {
	return f.Address + ", " + f.City + ", " + f.State + " " + f.Zip
}
