package liveview

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/floortime/internal/models"
)

func TestDisplayAdvancesOnePerTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)
	alice := uuid.New()

	p.SpeakerStarted(alice, 10)
	if got := p.DisplaySeconds(alice); got != 10 {
		t.Fatalf("display at start = %d, want 10", got)
	}

	prev := 10
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		got := p.DisplaySeconds(alice)
		if got != prev+1 {
			t.Fatalf("tick %d: display = %d, want %d", i+1, got, prev+1)
		}
		prev = got
	}
}

func TestDisplayResetsOnNewStart(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)
	alice := uuid.New()

	p.SpeakerStarted(alice, 0)
	clock.Advance(9 * time.Second)
	if _, elapsed, _ := p.ActiveElapsed(); elapsed != 9 {
		t.Fatalf("elapsed = %d, want 9", elapsed)
	}

	// A fresh start resets the advancing counter to zero on top of the
	// new persisted base.
	p.SpeakerStarted(alice, 9)
	if _, elapsed, _ := p.ActiveElapsed(); elapsed != 0 {
		t.Errorf("elapsed after restart = %d, want 0", elapsed)
	}
	if got := p.DisplaySeconds(alice); got != 9 {
		t.Errorf("display after restart = %d, want 9", got)
	}
}

func TestObserveSeedsFromPersistedTotal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)
	alice := uuid.New()
	bob := uuid.New()

	p.ObserveParticipants([]models.Participant{
		{ID: alice, Name: "Alice", TotalSpeakingTime: 120, IsCurrentlySpeaking: true},
		{ID: bob, Name: "Bob", TotalSpeakingTime: 45},
	})

	clock.Advance(3 * time.Second)
	if got := p.DisplaySeconds(alice); got != 123 {
		t.Errorf("active display = %d, want 123", got)
	}
	if got := p.DisplaySeconds(bob); got != 45 {
		t.Errorf("inactive display = %d, want last known total 45", got)
	}
}

func TestObserveKeepsSeedForUnchangedSpeaker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)
	alice := uuid.New()

	roster := []models.Participant{{ID: alice, TotalSpeakingTime: 0, IsCurrentlySpeaking: true}}
	p.ObserveParticipants(roster)
	clock.Advance(4 * time.Second)

	// A redundant refetch for the same active speaker must not restart
	// the counter.
	p.ObserveParticipants(roster)
	if _, elapsed, _ := p.ActiveElapsed(); elapsed != 4 {
		t.Errorf("elapsed after redundant observe = %d, want 4", elapsed)
	}
}

func TestObserveClearsWhenNobodySpeaking(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)
	alice := uuid.New()

	p.ObserveParticipants([]models.Participant{{ID: alice, TotalSpeakingTime: 7, IsCurrentlySpeaking: true}})
	clock.Advance(2 * time.Second)
	p.ObserveParticipants([]models.Participant{{ID: alice, TotalSpeakingTime: 9}})

	if _, _, ok := p.ActiveElapsed(); ok {
		t.Error("expected no active display after idle observe")
	}
	if got := p.DisplaySeconds(alice); got != 9 {
		t.Errorf("display = %d, want persisted total 9", got)
	}
}

func TestRunTicksUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPresenter(clock)

	ticks := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, func() { ticks <- struct{}{} })
	}()

	clock.BlockUntil(1)
	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never fired", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
