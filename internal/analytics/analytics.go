// Package analytics derives summary figures from drive records. All
// functions are pure; callers pass in the slices they already loaded.
package analytics

import (
	"sort"

	"github.com/driveline/placetrack/internal/models"
)

// dateLayout is the day granularity used for timeline bucketing.
const dateLayout = "02-01-2006"

// Summary aggregates the registered drives of a tracker.
type Summary struct {
	Total        int             `json:"total"`
	Selected     int             `json:"selected"`
	StatusCounts map[string]int  `json:"status_counts"`
	Timeline     []TimelinePoint `json:"timeline"`
}

// TimelinePoint counts drive activity on one calendar day.
type TimelinePoint struct {
	Date     string `json:"date"`
	Added    int    `json:"added"`
	Finished int    `json:"finished"`
}

// Summarize builds a Summary over the registered drives in the slice.
// Unregistered drives are excluded from every figure. A drive counts as
// added on its creation day; a finished drive counts as finished on its
// last update day (falling back to the creation day when it was never
// updated after creation).
func Summarize(drives []models.Drive) Summary {
	s := Summary{StatusCounts: map[string]int{}}
	buckets := map[string]*TimelinePoint{}

	point := func(date string) *TimelinePoint {
		if p, ok := buckets[date]; ok {
			return p
		}
		p := &TimelinePoint{Date: date}
		buckets[date] = p
		return p
	}

	for _, d := range drives {
		if d.RegistrationStatus != models.Registered {
			continue
		}
		s.Total++
		s.StatusCounts[d.Status]++
		if d.Selected {
			s.Selected++
		}

		point(d.CreatedAt.Format(dateLayout)).Added++

		if d.Status == models.DriveFinished {
			finished := d.CreatedAt
			if d.UpdatedAt.After(d.CreatedAt) {
				finished = d.UpdatedAt
			}
			point(finished.Format(dateLayout)).Finished++
		}
	}

	s.Timeline = make([]TimelinePoint, 0, len(buckets))
	for _, p := range buckets {
		s.Timeline = append(s.Timeline, *p)
	}
	sort.Slice(s.Timeline, func(i, j int) bool {
		return timelineKey(s.Timeline[i].Date) < timelineKey(s.Timeline[j].Date)
	})
	return s
}

// timelineKey reorders dd-mm-yyyy into a sortable yyyy-mm-dd string.
func timelineKey(date string) string {
	if len(date) != len(dateLayout) {
		return date
	}
	return date[6:] + "-" + date[3:5] + "-" + date[:2]
}
