package schedule_test

import (
	"fmt"
	"time"

	"github.com/go-easel/easel/pkg/schedule"
)

// This example drives a scheduler deterministically: the caller owns all
// pacing, so the tick sequence is reproducible on any host.
func ExampleScheduler_Tick() {
	s := schedule.New()

	remaining := 3
	s.Register(schedule.Task{
		ID: "blink",
		Advance: func() (time.Duration, bool) {
			remaining--
			return 100 * time.Millisecond, remaining > 0
		},
	})

	for {
		if _, ok := s.Tick(); !ok {
			break
		}
		fmt.Println(s.Elapsed())
	}
	// Output:
	// 100ms
	// 200ms
}

// This example shows realtime playback paced by the wall clock.
func ExampleScheduler_StartRealtime() {
	s := schedule.New()

	s.Register(schedule.Task{
		ID: "spinner",
		Advance: func() (time.Duration, bool) {
			// Redraw roughly 60 times per second until stopped.
			return 16 * time.Millisecond, true
		},
	})

	s.StartRealtime()

	// Later, from any goroutine:
	s.Stop("spinner")
}
