package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBarrier_Parties(t *testing.T) {
	if p := NewBarrier(4).Parties(); p != 4 {
		t.Errorf("Parties() = %d, want 4", p)
	}
	if p := NewBarrier(0).Parties(); p != 1 {
		t.Errorf("NewBarrier(0).Parties() = %d, want 1", p)
	}
}

func TestBarrier_SingleParty(t *testing.T) {
	b := NewBarrier(1)
	// Must not block.
	for range 3 {
		b.Wait()
	}
}

func TestBarrier_Phases(t *testing.T) {
	const parties, phases = 5, 20
	b := NewBarrier(parties)

	// Every party writes its slot for the phase, then after the barrier
	// checks that all slots of the phase are filled.
	slots := make([][parties]int, phases)
	var failures atomic.Int32

	var wg sync.WaitGroup
	wg.Add(parties)
	for rank := range parties {
		go func() {
			defer wg.Done()
			for p := range phases {
				slots[p][rank] = p + 1
				b.Wait()
				for r := range parties {
					if slots[p][r] != p+1 {
						failures.Add(1)
					}
				}
				b.Wait()
			}
		}()
	}
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Errorf("%d reads saw a slot before its writer reached the barrier", n)
	}
}

func TestRunTeam(t *testing.T) {
	for _, size := range []int{0, 1, 3, 8} {
		seen := make([]atomic.Int32, max(size, 1))
		var parties atomic.Int32

		RunTeam(size, func(rank int, b *Barrier) {
			seen[rank].Add(1)
			parties.Store(int32(b.Parties()))
			b.Wait()
		})

		for r := range seen {
			if n := seen[r].Load(); n != 1 {
				t.Errorf("size %d: rank %d ran %d times, want 1", size, r, n)
			}
		}
		if int(parties.Load()) != max(size, 1) {
			t.Errorf("size %d: Parties() = %d", size, parties.Load())
		}
	}
}

func TestRunTeam_SharedBuffer(t *testing.T) {
	const team = 4
	buf := make([]int, 64)
	sums := make([]int, team)

	RunTeam(team, func(rank int, b *Barrier) {
		for i := rank; i < len(buf); i += team {
			buf[i] = i
		}
		b.Wait()
		for _, v := range buf {
			sums[rank] += v
		}
	})

	for r, s := range sums {
		if s != 63*64/2 {
			t.Errorf("rank %d sum = %d, want %d", r, s, 63*64/2)
		}
	}
}
