package service

import (
	"net/mail"
	"strings"

	"dealer-kart/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	minPasswordLen  = 8
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// page clamps pagination parameters.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func validateAddress(a *model.Address) error {
	if a == nil {
		return model.NewValidationError("shipping address is required")
	}

	fields := []struct{ name, value string }{
		{"fullName", a.FullName},
		{"line1", a.Line1},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.NewValidationError("shipping address is missing " + strings.Join(missing, ", "))
	}
	return nil
}
