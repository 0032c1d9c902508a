package application

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSimulatorApprovesWhenRateZero(t *testing.T) {
	p := NewPaymentSimulatorWithSource(0, 0, rand.NewSource(1))
	for i := 0; i < 20; i++ {
		assert.NoError(t, p.Charge(context.Background(), "u1", 1000))
	}
}

func TestPaymentSimulatorDeclinesWhenRateOne(t *testing.T) {
	p := NewPaymentSimulatorWithSource(0, 1.0, rand.NewSource(1))
	err := p.Charge(context.Background(), "u1", 1000)
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestPaymentSimulatorHonorsContextCancel(t *testing.T) {
	p := NewPaymentSimulatorWithSource(5*time.Second, 0, rand.NewSource(1))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Charge(ctx, "u1", 1000) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("charge did not return after cancel")
	}
}

func TestPaymentSimulatorWaitsForDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	p := NewPaymentSimulatorWithSource(delay, 0, rand.NewSource(1))
	start := time.Now()
	require.NoError(t, p.Charge(context.Background(), "u1", 1000))
	assert.GreaterOrEqual(t, time.Since(start), delay)
}
