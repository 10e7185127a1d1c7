package powersource

import (
	"context"
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ Source = &BatterySource{}

// BatterySource is a Source backed by github.com/distatus/battery, which
// reads IOKit on macOS and sysfs on Linux.
type BatterySource struct {
	getAll func() ([]*battery.Battery, error)
}

func NewBatterySource() *BatterySource {
	return &BatterySource{getAll: battery.GetAll}
}

// Query lists all batteries. The platform call itself cannot be cancelled,
// so ctx only bounds how long we wait for it.
func (s *BatterySource) Query(ctx context.Context) ([]Record, error) {
	type result struct {
		batteries []*battery.Battery
		err       error
	}

	ch := make(chan result, 1)
	go func() {
		bats, err := s.getAll()
		ch <- result{batteries: bats, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(ctx.Err(), "battery query did not finish")
	case res = <-ch:
	}

	if res.err != nil {
		// Partial errors still come with the batteries that could be read.
		if len(res.batteries) == 0 {
			return nil, pkgerrors.Wrap(res.err, "failed to get batteries")
		}
		logrus.WithError(res.err).Warn("some battery fields could not be read")
	}

	records := make([]Record, 0, len(res.batteries))
	for _, b := range res.batteries {
		if b == nil {
			continue
		}
		records = append(records, RecordFromBattery(b))
	}

	return records, nil
}

// RecordFromBattery converts a battery reading (mWh, mW) to a Record with
// the IOPSKeys.h layout. Time estimates are derived from the charge rate.
func RecordFromBattery(b *battery.Battery) MapRecord {
	state := UnknownValue
	switch b.State.Raw {
	case battery.Discharging, battery.Empty:
		state = BatteryPowerValue
	case battery.Charging, battery.Full, battery.Idle:
		state = ACPowerValue
	}

	full := b.Full
	if full <= 0 {
		full = b.Design
	}

	toEmpty := int64(TimeRemainingUnknown)
	toFull := int64(TimeRemainingUnknown)
	if rate := math.Abs(b.ChargeRate); rate > 0 {
		toEmpty = int64(math.Round(b.Current / rate * 60))
		if remaining := full - b.Current; remaining > 0 {
			toFull = int64(math.Round(remaining / rate * 60))
		} else {
			toFull = 0
		}
	}

	return MapRecord{
		PowerSourceStateKey: state,
		CurrentCapacityKey:  int64(math.Round(b.Current)),
		MaxCapacityKey:      int64(math.Round(full)),
		TimeToEmptyKey:      toEmpty,
		TimeToFullChargeKey: toFull,
		IsChargingKey:       b.State.Raw == battery.Charging,
	}
}
