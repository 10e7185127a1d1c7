package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Update(t *testing.T) {
	tests := []struct {
		name     string
		percents []float64
		want     []Transition
	}{
		{
			name:     "stays normal",
			percents: []float64{80, 50, 5.1},
			want:     []Transition{None, None, None},
		},
		{
			name:     "enters low exactly at threshold",
			percents: []float64{6, 5},
			want:     []Transition{None, EnteredLow},
		},
		{
			name:     "starts low",
			percents: []float64{3},
			want:     []Transition{EnteredLow},
		},
		{
			name:     "notifies once per episode",
			percents: []float64{6, 4, 3, 2, 5},
			want:     []Transition{None, EnteredLow, None, None, None},
		},
		{
			name:     "recovers and re-alerts",
			percents: []float64{4, 6, 7, 4},
			want:     []Transition{EnteredLow, ExitedLow, None, EnteredLow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor()
			var got []Transition
			for _, p := range tt.percents {
				got = append(got, m.Update(p))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonitor_Idempotent(t *testing.T) {
	for _, p := range []float64{0, 4.9, 5, 5.1, 50, 100} {
		m := NewMonitor()
		m.Update(p)
		assert.Equal(t, None, m.Update(p), "percent %v", p)

		m = NewMonitor()
		m.Update(100)
		m.Update(p)
		assert.Equal(t, None, m.Update(p), "percent %v after 100", p)
	}
}

func TestMonitor_SingleCrossing(t *testing.T) {
	var seq []float64
	for p := 40.0; p >= 0; p -= 0.5 {
		seq = append(seq, p)
	}
	for p := 0.0; p <= 40; p += 0.5 {
		seq = append(seq, p)
	}

	m := NewMonitor()
	var transitions []Transition
	for _, p := range seq {
		if tr := m.Update(p); tr != None {
			transitions = append(transitions, tr)
		}
	}
	assert.Equal(t, []Transition{EnteredLow, ExitedLow}, transitions)
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "None", None.String())
	assert.Equal(t, "EnteredLow", EnteredLow.String())
	assert.Equal(t, "ExitedLow", ExitedLow.String())
}
