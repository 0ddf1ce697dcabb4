package booking

import "math"

// FeeBreakdown is the result of applying doctor and department surcharges to
// the base appointment fee. Amounts are whole currency units.
type FeeBreakdown struct {
	Base          int `json:"baseFee"`
	DoctorFee     int `json:"doctorFee"`
	DepartmentFee int `json:"departmentFee"`
	Total         int `json:"totalFee"`
}

// CalculateFees computes the doctor and department surcharges on top of the
// base fee. Each surcharge is rounded to the nearest whole unit on its own
// before summing; the two roundings must stay independent so totals are
// reproducible against historical records.
func CalculateFees(base int, doctorPct, departmentPct float64) FeeBreakdown {
	doctorFee := roundPct(base, doctorPct)
	departmentFee := roundPct(base, departmentPct)
	return FeeBreakdown{
		Base:          base,
		DoctorFee:     doctorFee,
		DepartmentFee: departmentFee,
		Total:         base + doctorFee + departmentFee,
	}
}

func roundPct(base int, pct float64) int {
	return int(math.Round(float64(base) * pct / 100))
}
