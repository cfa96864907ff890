package plume

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"github.com/akmonengine/plume/hull"
)

// Pair is two body indices whose hulls are tested together.
type Pair struct {
	BodyA int
	BodyB int
}

// Contact is a pair whose hulls touch.
type Contact struct {
	BodyA     int
	BodyB     int
	Collision hull.Collision
}

// AllPairs emits every pair of hulls that have a shape. There is no spatial
// partitioning: the pool is small enough for the n² sweep.
func AllPairs(hulls []hull.ConvexHull) <-chan Pair {
	pairs := make(chan Pair, len(hulls))

	go func() {
		defer close(pairs)

		for a := range hulls {
			if hulls[a].Kind() == hull.KindNone {
				continue
			}
			for b := a + 1; b < len(hulls); b++ {
				if hulls[b].Kind() == hull.KindNone {
					continue
				}
				pairs <- Pair{BodyA: a, BodyB: b}
			}
		}
	}()

	return pairs
}

// NarrowPhase tests each pair on workersCount goroutines and returns the
// contacts sorted by pair.
func NarrowPhase(hulls []hull.ConvexHull, pairs <-chan Pair, workersCount int, logger *slog.Logger) []Contact {
	ch := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairs {
					collision, err := hull.Test(&hulls[pair.BodyA], &hulls[pair.BodyB])
					if err != nil {
						logger.Warn("collision test failed", "bodyA", pair.BodyA, "bodyB", pair.BodyB, "error", err)
						continue
					}
					if !collision.Colliding {
						continue
					}
					ch <- Contact{BodyA: pair.BodyA, BodyB: pair.BodyB, Collision: collision}
				}
			}()
		}

		wg.Wait()
	}()

	contacts := make([]Contact, 0)
	for c := range ch {
		contacts = append(contacts, c)
	}

	slices.SortFunc(contacts, func(a, b Contact) int {
		return cmp.Or(cmp.Compare(a.BodyA, b.BodyA), cmp.Compare(a.BodyB, b.BodyB))
	})
	return contacts
}
