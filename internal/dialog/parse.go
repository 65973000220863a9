package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes malformed dialog input. It is reported to the
// actor and the pending state stays cleared; no mutation happens.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ParseUserID parses the single-token integer identifier expected by the
// add-admin and remove-admin dialogs.
func ParseUserID(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) != 1 {
		return 0, validationErrorf("expected a single user id, got %d tokens", len(fields))
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, validationErrorf("user id must be a number, got %q", fields[0])
	}
	return id, nil
}

// PromoSpec is the parsed create-promo dialog input: `value maxUses [code]`.
// An empty Code means one should be generated.
type PromoSpec struct {
	Value   int64
	MaxUses int
	Code    string
}

// ParsePromoSpec parses two or three whitespace-separated tokens.
func ParsePromoSpec(text string) (PromoSpec, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 && len(fields) != 3 {
		return PromoSpec{}, validationErrorf("expected `value maxUses [code]`, got %d tokens", len(fields))
	}

	value, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return PromoSpec{}, validationErrorf("value must be a number, got %q", fields[0])
	}
	maxUses, err := strconv.Atoi(fields[1])
	if err != nil {
		return PromoSpec{}, validationErrorf("max uses must be a number, got %q", fields[1])
	}
	if maxUses < 1 {
		return PromoSpec{}, validationErrorf("max uses must be at least 1, got %d", maxUses)
	}

	spec := PromoSpec{Value: value, MaxUses: maxUses}
	if len(fields) == 3 {
		spec.Code = strings.ToUpper(fields[2])
	}
	return spec, nil
}

// GrantSpec is the parsed grant dialog input: `userID amount`. Amount may be
// negative, enabling penalties.
type GrantSpec struct {
	UserID int64
	Amount int64
}

// ParseGrantSpec parses exactly two integer tokens.
func ParseGrantSpec(text string) (GrantSpec, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return GrantSpec{}, validationErrorf("expected `userID amount`, got %d tokens", len(fields))
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return GrantSpec{}, validationErrorf("user id must be a number, got %q", fields[0])
	}
	amount, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return GrantSpec{}, validationErrorf("amount must be a number, got %q", fields[1])
	}
	return GrantSpec{UserID: userID, Amount: amount}, nil
}
