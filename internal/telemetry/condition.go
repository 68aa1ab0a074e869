package telemetry

// Condition labels derived from sensor readings.
const (
	ConditionCriticalFuel    = "CRITICAL_FUEL_LEVEL"
	ConditionLowTirePressure = "LOW_TIRE_PRESSURE"
	ConditionOverInflated    = "OVER_INFLATED_TIRES"
	ConditionHighSpeed       = "HIGH_SPEED_ALERT"
	ConditionLowFuelReserve  = "LOW_FUEL_RESERVE"
	ConditionOptimal         = "OPTIMAL"
)

// DeriveCondition classifies a reading. Rules are evaluated in priority order
// and the first match wins: critically low fuel outranks tire pressure, which
// outranks speed, which outranks the low-fuel reserve warning.
func DeriveCondition(fuel, tirePressure, speed float64) string {
	switch {
	case fuel < 5:
		return ConditionCriticalFuel
	case tirePressure < 30:
		return ConditionLowTirePressure
	case tirePressure > 35:
		return ConditionOverInflated
	case speed > 100:
		return ConditionHighSpeed
	case fuel < 15:
		return ConditionLowFuelReserve
	default:
		return ConditionOptimal
	}
}
