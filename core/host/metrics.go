package host

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/prefixed"
	"golang.org/x/xerrors"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
)

var promInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "recordstore_host_invocations_total",
	Help: "total number of executed transactions per program and result",
}, []string{"program", "result"})

func init() {
	recordstore.PromCollectors = append(recordstore.PromCollectors, promInvocations)
}

var countsKey = []byte("invocations")

// counts are the numbers of invocations per program and result, persisted so
// that the counters survive the process.
type counts map[string]map[string]uint64

func readCounts(r store.Readable) (counts, error) {
	value, err := prefixed.NewReadable(hostPrefix, r).Get(countsKey)
	if err != nil {
		return nil, xerrors.Errorf("failed to read counts: %v", err)
	}

	c := counts{}
	if value == nil {
		return c, nil
	}

	err = json.Unmarshal(value, &c)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode counts: %v", err)
	}

	return c, nil
}

func incrementCount(snap store.Snapshot, program, result string) error {
	c, err := readCounts(snap)
	if err != nil {
		return err
	}

	if c[program] == nil {
		c[program] = make(map[string]uint64)
	}

	c[program][result]++

	value, err := json.Marshal(c)
	if err != nil {
		return xerrors.Errorf("failed to encode counts: %v", err)
	}

	return prefixed.NewSnapshot(hostPrefix, snap).Set(countsKey, value)
}

// count increments the counter of the program and persists it. A failure to
// persist is only logged as the invocation itself is already settled.
func (h *Host) count(program, result string) {
	promInvocations.WithLabelValues(program, result).Inc()

	err := h.storage.Update(func(snap store.Snapshot) error {
		return incrementCount(snap, program, result)
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to persist the invocation count")
	}
}

// RestoreMetrics sets the counters of the process to the counts persisted in
// the storage of the host.
func (h *Host) RestoreMetrics() error {
	var c counts

	err := h.storage.View(func(r store.Readable) error {
		var err error
		c, err = readCounts(r)

		return err
	})
	if err != nil {
		return xerrors.Errorf("failed to restore metrics: %v", err)
	}

	promInvocations.Reset()

	for program, results := range c {
		for result, n := range results {
			promInvocations.WithLabelValues(program, result).Add(float64(n))
		}
	}

	return nil
}
