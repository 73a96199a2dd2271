package schedule

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// Decoration is the cosmetic content attached to a rendered rounds record.
// It never influences which events are scheduled.
type Decoration struct {
	Time        string
	Temperature float64
	Pulse       int
	Respiration int
	Systolic    int
	Diastolic   int
}

// VitalsSentence renders the decoration as the examination sentence of a record.
func (d Decoration) VitalsSentence() string {
	return fmt.Sprintf("患者神志清，精神可。T：%.1f°C，P：%d次/分，R：%d次/分，BP：%d/%dmmHg。心肺等内科查体未见明确异常。",
		d.Temperature, d.Pulse, d.Respiration, d.Systolic, d.Diastolic)
}

// Decorator supplies decoration for a scheduled event.
type Decorator interface {
	Decorate(e DocumentationEvent) Decoration
}

// FixedDecorator returns the same decoration for every event.
type FixedDecorator Decoration

// Decorate implements Decorator.
func (f FixedDecorator) Decorate(DocumentationEvent) Decoration {
	return Decoration(f)
}

// RandomDecorator draws a rounds time between 08:00 and 10:30 and vital signs
// within normal adult ranges.
type RandomDecorator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDecorator seeds a decorator. Equal seeds produce equal decorations.
func NewRandomDecorator(seed uint64) *RandomDecorator {
	return &RandomDecorator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Decorate implements Decorator.
func (r *RandomDecorator) Decorate(DocumentationEvent) Decoration {
	r.mu.Lock()
	defer r.mu.Unlock()

	hour := r.between(8, 10)
	minute := r.between(0, 59)
	if hour == 10 {
		minute = r.between(0, 30)
	}

	temp := 36.2 + r.rng.Float64()*(37.0-36.2)
	return Decoration{
		Time:        fmt.Sprintf("%02d:%02d", hour, minute),
		Temperature: math.Round(temp*10) / 10,
		Pulse:       r.between(65, 85),
		Respiration: r.between(16, 19),
		Systolic:    r.between(110, 138),
		Diastolic:   r.between(72, 88),
	}
}

// between returns an int in [lo, hi].
func (r *RandomDecorator) between(lo, hi int) int {
	return lo + r.rng.IntN(hi-lo+1)
}
