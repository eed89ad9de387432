package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/example/shopmart/internal/domain/order"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// ValidationError carries one message per failed address field so the form
// can mark the offending inputs. Recoverable by user correction.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid shipping address: %s", strings.Join(keys, ", "))
}

// ValidateAddress checks the required shipping fields. Returns nil when the
// address is acceptable.
func ValidateAddress(a order.Address) *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(a.FullName) == "" {
		fields["full_name"] = "Name is required"
	}
	if !phonePattern.MatchString(a.Phone) {
		fields["phone"] = "Valid 10-digit phone number required"
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		fields["address_line1"] = "Address is required"
	}
	if strings.TrimSpace(a.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(a.State) == "" {
		fields["state"] = "State is required"
	}
	if !pincodePattern.MatchString(a.Pincode) {
		fields["pincode"] = "Valid 6-digit pincode required"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
