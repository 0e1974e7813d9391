package model

import "testing"

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{499, "$4.99"},
		{1000, "$10.00"},
		{5, "$0.05"},
		{0, "$0.00"},
		{-250, "-$2.50"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.minor); got != c.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", c.minor, got, c.want)
		}
	}
}

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		amount    int64
		wantFee   int64
		wantShare int64
	}{
		{499, 100, 399},   // round(99.8) = 100
		{1000, 200, 800},  // exact
		{424, 85, 339},    // round(84.8) = 85
		{272, 54, 218},    // round(54.4) = 54
		{728, 146, 582},   // round(145.6) = 146
		{1, 0, 1},         // round(0.2) = 0
		{2, 0, 2},         // round(0.4) = 0
		{3, 1, 2},         // round(0.6) = 1
		{0, 0, 0},
	}
	for _, c := range cases {
		fee, share := SplitAmount(c.amount)
		if fee != c.wantFee || share != c.wantShare {
			t.Errorf("SplitAmount(%d) = (%d, %d), want (%d, %d)", c.amount, fee, share, c.wantFee, c.wantShare)
		}
		if fee+share != c.amount {
			t.Errorf("SplitAmount(%d): fee+share = %d, must equal amount", c.amount, fee+share)
		}
	}
}

func TestCalculateBundlePrice(t *testing.T) {
	cases := []struct {
		name     string
		prices   []int64
		discount int
		want     int64
	}{
		{"two equal seasons at 15%", []int64{499, 499}, 15, 848}, // 998 - round(149.7)
		{"single season at 15%", []int64{799}, 15, 679},          // 799 - round(119.85)
		{"no discount", []int64{299, 799}, 0, 1098},
		{"full discount", []int64{299, 799}, 100, 0},
		{"discount below range clamps to 0", []int64{500}, -10, 500},
		{"discount above range clamps to 100", []int64{500}, 150, 0},
		{"empty bundle", nil, 15, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CalculateBundlePrice(c.prices, c.discount); got != c.want {
				t.Errorf("CalculateBundlePrice(%v, %d) = %d, want %d", c.prices, c.discount, got, c.want)
			}
		})
	}
}

func TestAllocateBundle(t *testing.T) {
	t.Run("proportional to list prices", func(t *testing.T) {
		got := AllocateBundle(1000, []int64{299, 799})
		// 1000 * 299/1098 = 272.3 -> 272; 1000 * 799/1098 = 727.7 -> 728
		if len(got) != 2 || got[0] != 272 || got[1] != 728 {
			t.Errorf("AllocateBundle = %v, want [272 728]", got)
		}
	})

	t.Run("equal prices split evenly", func(t *testing.T) {
		got := AllocateBundle(848, []int64{499, 499})
		if len(got) != 2 || got[0] != 424 || got[1] != 424 {
			t.Errorf("AllocateBundle = %v, want [424 424]", got)
		}
	})

	t.Run("independent rounding may drift from the total", func(t *testing.T) {
		// Three equal thirds of 100: each rounds to 33, summing to 99.
		got := AllocateBundle(100, []int64{10, 10, 10})
		var sum int64
		for _, v := range got {
			if v != 33 {
				t.Errorf("expected 33 per season, got %v", got)
			}
			sum += v
		}
		if sum != 99 {
			t.Errorf("expected drifted sum 99, got %d", sum)
		}
	})

	t.Run("all-zero prices fall back to an equal split", func(t *testing.T) {
		got := AllocateBundle(900, []int64{0, 0, 0})
		for _, v := range got {
			if v != 300 {
				t.Errorf("expected 300 per season, got %v", got)
			}
		}
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		if got := AllocateBundle(100, nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
