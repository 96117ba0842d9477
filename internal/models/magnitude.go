package models

// MagnitudeClass is a descriptive magnitude band
type MagnitudeClass string

const (
	ClassMicro    MagnitudeClass = "Micro"
	ClassMinor    MagnitudeClass = "Minor"
	ClassLight    MagnitudeClass = "Light"
	ClassModerate MagnitudeClass = "Moderate"
	ClassStrong   MagnitudeClass = "Strong"
	ClassGreat    MagnitudeClass = "Great"
)

// DescribeMagnitude returns the descriptive band for a magnitude
func DescribeMagnitude(mag float64) MagnitudeClass {
	switch {
	case mag < 2.5:
		return ClassMicro
	case mag < 4.5:
		return ClassMinor
	case mag < 6.0:
		return ClassLight
	case mag < 7.0:
		return ClassModerate
	case mag < 8.0:
		return ClassStrong
	default:
		return ClassGreat
	}
}

// MagnitudeColor returns the marker color bucket for a magnitude as a hex string
func MagnitudeColor(mag float64) string {
	switch {
	case mag < 1:
		return "#4CAF50" // green
	case mag < 3:
		return "#8BC34A" // light green
	case mag < 5:
		return "#FFC107" // yellow
	case mag < 7:
		return "#FF9800" // orange
	case mag < 8:
		return "#F44336" // red
	default:
		return "#7B1FA2" // purple
	}
}
