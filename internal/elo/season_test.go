package elo

import "testing"

func TestSeasonTracker(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  []bool
	}{
		{
			name:  "first match never crosses",
			years: []int{2020},
			want:  []bool{false},
		},
		{
			name:  "same season never crosses",
			years: []int{2020, 2020, 2020},
			want:  []bool{false, false, false},
		},
		{
			name:  "boundary crossed once per transition",
			years: []int{2020, 2020, 2021, 2021, 2022},
			want:  []bool{false, false, true, false, true},
		},
		{
			name:  "multi-year gap is a single boundary",
			years: []int{2019, 2022, 2022},
			want:  []bool{false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tracker SeasonTracker
			for i, year := range tt.years {
				if got := tracker.Crossed(year); got != tt.want[i] {
					t.Errorf("match %d (year %d): Crossed = %v, want %v", i, year, got, tt.want[i])
				}
			}
		})
	}
}
