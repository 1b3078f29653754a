package workload

import (
	"fmt"
	"time"

	"github.com/miradorstack/workload-simulator/internal/models"
	"github.com/miradorstack/workload-simulator/internal/utils"
)

// TrafficWindows configures which calendar slots carry high or mid traffic.
// Weekdays use 0 for Monday through 6 for Sunday.
type TrafficWindows struct {
	WeekendDays []int
	HighHours   []int
	MidHours    []int
	// UTCOffset is the fixed civil offset the wall clock is read in.
	UTCOffset time.Duration
}

// Classifier maps a (weekday, hour) pair onto a traffic tier. It is immutable once built.
type Classifier struct {
	weekend  [7]bool
	hours    [24]models.TrafficTier
	location *time.Location
}

// NewClassifier builds the window table. High and mid hours must not overlap.
func NewClassifier(w TrafficWindows) (*Classifier, error) {
	c := &Classifier{location: utils.FixedZone(w.UTCOffset)}
	for i := range c.hours {
		c.hours[i] = models.TrafficLow
	}

	for _, day := range w.WeekendDays {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("weekend day %d outside [0,6]", day)
		}
		c.weekend[day] = true
	}
	for _, hour := range w.HighHours {
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("high traffic hour %d outside [0,23]", hour)
		}
		c.hours[hour] = models.TrafficHigh
	}
	for _, hour := range w.MidHours {
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("mid traffic hour %d outside [0,23]", hour)
		}
		if c.hours[hour] == models.TrafficHigh {
			return nil, fmt.Errorf("hour %d is both high and mid traffic", hour)
		}
		c.hours[hour] = models.TrafficMid
	}
	return c, nil
}

// Classify returns the tier for a weekday and hour. Out-of-range values wrap around.
func (c *Classifier) Classify(weekday, hour int) models.TrafficTier {
	if c.weekend[utils.Mod(weekday, 7)] {
		return models.TrafficLow
	}
	return c.hours[utils.Mod(hour, 24)]
}

// ClassifyTime classifies t as read in the configured civil offset.
func (c *Classifier) ClassifyTime(t time.Time) models.TrafficTier {
	local := t.In(c.location)
	return c.Classify(utils.MondayIndex(local.Weekday()), local.Hour())
}

// Location is the fixed zone used by ClassifyTime.
func (c *Classifier) Location() *time.Location {
	return c.location
}
