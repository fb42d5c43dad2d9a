package budget

func f64(v float64) *float64 { return &v }
