package booking

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/neurofleet/neurofleet-core/internal/models"
)

// TripProfile is the fixed nominal trip every booking is simulated against.
// Metrics are derived by linear interpolation of elapsed time against it.
type TripProfile struct {
	DistanceKm float64
	Minutes    int64
	Hours      float64
}

// DefaultProfile matches the nominal 248.25 km / 192 minute route.
var DefaultProfile = TripProfile{DistanceKm: 248.25, Minutes: 192, Hours: 3.2}

// Metrics is one derived snapshot of an active trip.
type Metrics struct {
	Distance string // km remaining
	Duration string // hours remaining
	Progress int    // 0-100
	Velocity string // km/h, fresh random draw per call
	Energy   int    // 0-100
}

// MetricsAt computes the snapshot for a trip that started elapsed ago.
// Elapsed time is truncated to whole minutes, so two calls in immediate
// succession agree on distance, progress and energy; velocity is a fresh
// draw in [60,80) every call and is display flavor only.
func (p TripProfile) MetricsAt(elapsed time.Duration, rng *rand.Rand) Metrics {
	minutes := int64(elapsed.Minutes())
	if minutes < 0 {
		minutes = 0
	}

	covered := float64(minutes) * (p.DistanceKm / float64(p.Minutes))
	remaining := math.Max(0, p.DistanceKm-covered)
	progress := int(math.Min(100, math.Round(covered/p.DistanceKm*100)))
	energy := 100 - progress
	if energy < 0 {
		energy = 0
	}
	velocity := 60 + rng.Intn(20)

	return Metrics{
		Distance: fmt.Sprintf("%.2f", remaining),
		Duration: fmt.Sprintf("%.1f", math.Max(0, p.Hours-float64(minutes)/60.0)),
		Progress: progress,
		Velocity: strconv.Itoa(velocity),
		Energy:   energy,
	}
}

// Apply writes the snapshot onto a booking record.
func (m Metrics) Apply(b *models.Booking) {
	b.Distance = m.Distance
	b.Duration = m.Duration
	b.Progress = m.Progress
	b.Velocity = m.Velocity
	b.Energy = m.Energy
}

// resetMetrics restores the trip-profile defaults used for PENDING and
// freshly approved bookings.
func (p TripProfile) resetMetrics(b *models.Booking) {
	b.Distance = fmt.Sprintf("%.2f", p.DistanceKm)
	b.Duration = fmt.Sprintf("%.1f", p.Hours)
	b.Progress = 0
	b.Velocity = "0"
	b.Energy = 100
}
