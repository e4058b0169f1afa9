package payment

import "github.com/mkj2903/finalshowmo/internal/platform/validation"

// UTRLength is the length of a UPI transaction reference.
const UTRLength = 12

// ValidateUTR accepts exactly twelve ASCII digits.
func ValidateUTR(utr string) error {
	if len(utr) != UTRLength {
		return validation.New("utrNumber", "UTR number must be exactly 12 digits")
	}
	for i := 0; i < len(utr); i++ {
		if utr[i] < '0' || utr[i] > '9' {
			return validation.New("utrNumber", "UTR number must contain digits only")
		}
	}
	return nil
}
