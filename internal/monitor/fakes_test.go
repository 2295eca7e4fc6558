package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

var ksan = coordinates.Geographic{Latitude: 32.7338, Longitude: -117.1933}

func pilot(cid int, callsign string, lat, lon float64) vatsim.Pilot {
	return vatsim.Pilot{CID: cid, Callsign: callsign, Latitude: lat, Longitude: lon}
}

// Roughly 4 nm, 16 nm and 95 nm from KSAN.
var (
	nearA = pilot(1001, "SWA100", 32.80, -117.20)
	nearB = pilot(1002, "N42AB", 33.00, -117.20)
	far   = pilot(1003, "AAL9", 33.9416, -118.4085)
)

type fakeLive struct {
	mu     sync.Mutex
	pilots []vatsim.Pilot
	err    error
	calls  int
}

func (f *fakeLive) set(pilots []vatsim.Pilot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pilots, f.err = pilots, err
}

func (f *fakeLive) GetOnlinePilots(context.Context) ([]vatsim.Pilot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]vatsim.Pilot(nil), f.pilots...), nil
}

type fakeRatings struct {
	mu    sync.Mutex
	hours map[int]float64
	fail  map[int]error
	calls map[int]int
	delay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeRatings(hours map[int]float64) *fakeRatings {
	return &fakeRatings{hours: hours, fail: map[int]error{}, calls: map[int]int{}}
}

func (f *fakeRatings) GetRatingTimes(ctx context.Context, cid int) (vatsim.RatingTimes, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[cid]++
	if err := f.fail[cid]; err != nil {
		return vatsim.RatingTimes{}, err
	}
	return vatsim.RatingTimes{Pilot: f.hours[cid], ATC: f.hours[cid] / 10}, nil
}

func (f *fakeRatings) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRatings) setFail(cid int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, cid)
		return
	}
	f.fail[cid] = err
}

func cids(rows []RankedPilot) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.CID()
	}
	return out
}

func rowsFor(ids ...int) []RankedPilot {
	rows := make([]RankedPilot, len(ids))
	for i, id := range ids {
		rows[i] = RankedPilot{Pilot: vatsim.Pilot{CID: id}}
	}
	return rows
}
