package indicators

import "fmt"

// VolumeMA calculates a simple moving average over the volume column.
// Entries before index period-1 are undefined.
func VolumeMA(volumes []float64, period int) (Series, error) {
	if period <= 0 {
		return nil, fmt.Errorf("volume ma: period must be positive, got %d", period)
	}
	if len(volumes) < period {
		return undefined(len(volumes)), nil
	}

	out := undefined(len(volumes))

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += volumes[i]
	}
	out[period-1] = Defined(sum / float64(period))

	for i := period; i < len(volumes); i++ {
		sum += volumes[i] - volumes[i-period]
		out[i] = Defined(sum / float64(period))
	}

	return out, nil
}
