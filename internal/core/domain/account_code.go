package domain

import (
	"fmt"
	"strconv"
)

const (
	minAccountCodeLen = 4
	maxAccountCodeLen = 10
)

// CodeRange is an inclusive range of leading digits reserved for an account type.
type CodeRange struct {
	From int
	To   int
}

// CodeRangePolicy maps each account type to the leading-digit range its codes must use.
type CodeRangePolicy map[AccountType]CodeRange

// DefaultCodeRanges is the conventional chart layout:
// 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx-9xxx expenses.
var DefaultCodeRanges = CodeRangePolicy{
	Asset:     {From: 1, To: 1},
	Liability: {From: 2, To: 2},
	Equity:    {From: 3, To: 3},
	Revenue:   {From: 4, To: 4},
	Expense:   {From: 5, To: 9},
}

// Validate checks that code is well formed and lies in the range reserved for t.
func (p CodeRangePolicy) Validate(code string, t AccountType) error {
	if len(code) < minAccountCodeLen || len(code) > maxAccountCodeLen {
		return fmt.Errorf("account code %q must be between %d and %d digits", code, minAccountCodeLen, maxAccountCodeLen)
	}
	if _, err := strconv.ParseUint(code, 10, 64); err != nil {
		return fmt.Errorf("account code %q must contain only digits", code)
	}
	r, ok := p[t]
	if !ok {
		return fmt.Errorf("no code range configured for account type %s", t)
	}
	lead := int(code[0] - '0')
	if lead < r.From || lead > r.To {
		return fmt.Errorf("account code %q is outside the %dxxx-%dxxx range reserved for %s", code, r.From, r.To, t)
	}
	return nil
}

// TypeForCode returns the account type whose range contains code.
func (p CodeRangePolicy) TypeForCode(code string) (AccountType, bool) {
	if code == "" || code[0] < '0' || code[0] > '9' {
		return "", false
	}
	lead := int(code[0] - '0')
	for _, t := range AccountTypes {
		if r, ok := p[t]; ok && lead >= r.From && lead <= r.To {
			return t, true
		}
	}
	return "", false
}

// IsWellFormedCode reports whether code has the allowed length and only digits.
// It does not check the type range.
func IsWellFormedCode(code string) bool {
	if len(code) < minAccountCodeLen || len(code) > maxAccountCodeLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
