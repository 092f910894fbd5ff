package dto

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

const dateOnly = "2006-01-02"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("iso_date", validateISODate)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, _, err := parseDate(fl.Field().String())
	return err == nil
}

// parseDate reads RFC3339 or a bare date. dateOnly is true for the latter.
func parseDate(s string) (t time.Time, dateOnlyForm bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err = time.Parse(dateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}

// Filter turns the bound query into a domain filter. A bare toDate covers
// the whole day.
func (q HistoryQuery) Filter() (domain.HistoryFilter, error) {
	f := domain.HistoryFilter{
		Type:     domain.EntryType(strings.ToLower(strings.TrimSpace(q.Type))),
		Status:   domain.EntryStatus(strings.ToLower(strings.TrimSpace(q.Status))),
		Currency: domain.Currency(strings.ToUpper(strings.TrimSpace(q.Currency))),
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		Limit:    q.Limit,
	}

	if q.From != "" {
		from, _, err := parseDate(q.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, bare, err := parseDate(q.To)
		if err != nil {
			return f, err
		}
		if bare {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &to
	}
	return f, nil
}
