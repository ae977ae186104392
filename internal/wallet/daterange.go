package wallet

import (
	"strconv"
	"time"

	"github.com/kolo-pay/kolo_pay/internal/apperr"
)

const dateLayout = "2006-01-02"

// resolveDateRange maps the "day" query parameter onto the provider's
// dateFrom/dateTo window. Supported values: a non-negative integer (days back
// from today), "month" (back to the first of the current calendar month) and
// "all" (since wallet creation). Absent defaults to the creation date.
func resolveDateRange(day string, createdAt, now time.Time) (string, string, error) {
	to := now.Format(dateLayout)

	switch day {
	case "", "all":
		return createdAt.Format(dateLayout), to, nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.Format(dateLayout), to, nil
	}

	n, err := strconv.Atoi(day)
	if err != nil || n < 0 {
		return "", "", apperr.Validation("day must be a non-negative integer, \"month\" or \"all\"")
	}
	return now.AddDate(0, 0, -n).Format(dateLayout), to, nil
}
