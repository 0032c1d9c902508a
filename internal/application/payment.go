package application

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrPaymentDeclined = errors.New("payment declined")

// PaymentSimulator stands in for a payment gateway: it waits for the
// configured processing delay and then declines a configurable fraction of
// charges. The rng is injectable so tests can force either outcome.
type PaymentSimulator struct {
	Delay       time.Duration
	DeclineRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPaymentSimulator(delay time.Duration, declineRate float64) *PaymentSimulator {
	return &PaymentSimulator{
		Delay:       delay,
		DeclineRate: declineRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewPaymentSimulatorWithSource builds a simulator with a deterministic
// random source.
func NewPaymentSimulatorWithSource(delay time.Duration, declineRate float64, src rand.Source) *PaymentSimulator {
	return &PaymentSimulator{Delay: delay, DeclineRate: declineRate, rng: rand.New(src)}
}

// Charge simulates processing a payment of amountCents for userID. It
// honors context cancellation during the processing delay and returns
// ErrPaymentDeclined for declined charges. Nothing is ever actually billed.
func (p *PaymentSimulator) Charge(ctx context.Context, userID string, amountCents int64) error {
	if p.Delay > 0 {
		t := time.NewTimer(p.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	p.mu.Lock()
	roll := p.rng.Float64()
	p.mu.Unlock()
	if roll < p.DeclineRate {
		return ErrPaymentDeclined
	}
	return nil
}
