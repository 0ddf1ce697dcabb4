package booking

import "testing"

func TestCalculateFees_ReferenceCase(t *testing.T) {
	fees := CalculateFees(1200, 10, 5)
	if fees.DoctorFee != 120 {
		t.Errorf("doctor fee = %d, want 120", fees.DoctorFee)
	}
	if fees.DepartmentFee != 60 {
		t.Errorf("department fee = %d, want 60", fees.DepartmentFee)
	}
	if fees.Total != 1380 {
		t.Errorf("total = %d, want 1380", fees.Total)
	}
}

func TestCalculateFees_IndependentRounding(t *testing.T) {
	// 1000 at 0.15% is 1.5 each; rounding each surcharge on its own gives
	// 2 + 2, not round(3.0) applied once.
	fees := CalculateFees(1000, 0.15, 0.15)
	if fees.DoctorFee != 2 || fees.DepartmentFee != 2 {
		t.Errorf("surcharges = %d/%d, want 2/2", fees.DoctorFee, fees.DepartmentFee)
	}
	if fees.Total != 1004 {
		t.Errorf("total = %d, want 1004", fees.Total)
	}
}

func TestCalculateFees_Identity(t *testing.T) {
	cases := []struct {
		base     int
		doc, dep float64
	}{
		{1200, 10, 5},
		{1500, 12.5, 7.5},
		{999, 33.3, 0},
		{0, 10, 10},
		{750, 0, 0},
	}
	for _, c := range cases {
		fees := CalculateFees(c.base, c.doc, c.dep)
		if fees.Total != fees.Base+fees.DoctorFee+fees.DepartmentFee {
			t.Errorf("CalculateFees(%d, %v, %v): total %d != %d+%d+%d",
				c.base, c.doc, c.dep, fees.Total, fees.Base, fees.DoctorFee, fees.DepartmentFee)
		}
	}
}

func TestCalculateFees_ZeroPercentages(t *testing.T) {
	fees := CalculateFees(1200, 0, 0)
	if fees.Total != 1200 {
		t.Errorf("total = %d, want 1200", fees.Total)
	}
}
