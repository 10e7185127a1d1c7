package powersource

import (
	"context"

	pkgerrors "github.com/pkg/errors"
)

// Reader reads a Snapshot from a Source.
type Reader struct {
	source Source
}

func NewReader(source Source) *Reader {
	return &Reader{source: source}
}

// Read queries the source and builds a Snapshot from the first reported
// power source. Hosts with several batteries are not arbitrated: the first
// one wins, which is fine for the usual single internal battery.
func (r *Reader) Read(ctx context.Context) (Snapshot, error) {
	records, err := r.source.Query(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(err, "failed to query power sources")
	}
	if len(records) == 0 {
		return Snapshot{}, ErrNoPowerSource
	}

	return SnapshotFromRecord(records[0])
}

// SnapshotFromRecord extracts and validates the fields of a single record.
func SnapshotFromRecord(rec Record) (Snapshot, error) {
	stateString, err := GetString(rec, PowerSourceStateKey)
	if err != nil {
		return Snapshot{}, err
	}
	current, err := GetInt(rec, CurrentCapacityKey)
	if err != nil {
		return Snapshot{}, err
	}
	maxCapacity, err := GetInt(rec, MaxCapacityKey)
	if err != nil {
		return Snapshot{}, err
	}

	state := ParseState(stateString)

	minutes := int64(TimeRemainingUnknown)
	switch state {
	case OnBattery:
		minutes, err = GetInt(rec, TimeToEmptyKey)
	case OnACPower:
		minutes, err = GetInt(rec, TimeToFullChargeKey)
	}
	if err != nil {
		return Snapshot{}, err
	}

	s, err := NewSnapshot(state, current, maxCapacity, minutes)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrapf(err, "invalid capacity %d/%d", current, maxCapacity)
	}

	return s, nil
}
