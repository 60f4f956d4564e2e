package archive

import (
	"regexp"
	"strings"
	"time"

	"github.com/pmjdystats/pmjdy/internal/model"
)

// endDateLayouts are tried in order on the captured end-date text.
var endDateLayouts = []string{
	model.ISODateLayout,
	model.FormDateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// EndDateDetector finds the most recent available report date in the
// landing page. The page embeds datepicker settings such as
// {"endDate":"2018-07-04","format":"dd/mm/yyyy"}.
type EndDateDetector struct {
	pattern *regexp.Regexp
}

// NewEndDateDetector compiles pattern. Its first capture group must hold the date.
func NewEndDateDetector(pattern string) (*EndDateDetector, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &EndDateDetector{pattern: re}, nil
}

// Detect returns the end date as a UTC day, or false when the marker is
// missing or its value cannot be parsed.
func (d *EndDateDetector) Detect(page string) (time.Time, bool) {
	m := d.pattern.FindStringSubmatch(page)
	if len(m) < 2 {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(m[1])
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.Day(t), true
		}
	}
	return time.Time{}, false
}
