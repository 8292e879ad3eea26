// Package units converts between millimetres and the unit system a project
// is entered in, and formats and parses dimension strings.
package units

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelCut/internal/model"
)

// MMPerInch is the number of millimetres in one inch.
const MMPerInch = 25.4

// ErrInvalidDimension is returned when a dimension string cannot be parsed.
var ErrInvalidDimension = errors.New("invalid dimension")

var (
	metricPattern   = regexp.MustCompile(`(?i)^([\d.]+)(?:\s*mm)?$`)
	fractionPattern = regexp.MustCompile(`^(?:(\d+)\s+)?(\d+)/(\d+)"?$`)
	decimalPattern  = regexp.MustCompile(`^([\d.]+)"?$`)
)

// ToMillimeters converts a value in the given unit system to millimetres.
func ToMillimeters(value float64, unit model.UnitSystem) float64 {
	if unit == model.UnitMetric {
		return value
	}
	return value * MMPerInch
}

// FromMillimeters converts millimetres to the given unit system.
func FromMillimeters(value float64, unit model.UnitSystem) float64 {
	if unit == model.UnitMetric {
		return value
	}
	return value / MMPerInch
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// FormatDimension renders a millimetre value for display. Metric values get
// one decimal place at most; imperial values are shown as whole inches plus
// a reduced fraction to the nearest sixteenth.
func FormatDimension(mm float64, unit model.UnitSystem) string {
	if unit == model.UnitMetric {
		return strconv.FormatFloat(roundHalfUp(mm*10)/10, 'f', -1, 64) + "mm"
	}

	inches := mm / MMPerInch
	whole := int(math.Floor(inches))
	fraction := inches - float64(whole)

	sixteenths := int(roundHalfUp(fraction * 16))
	switch sixteenths {
	case 0:
		return fmt.Sprintf("%d\"", whole)
	case 16:
		return fmt.Sprintf("%d\"", whole+1)
	}

	d := gcd(sixteenths, 16)
	if whole == 0 {
		return fmt.Sprintf("%d/%d\"", sixteenths/d, 16/d)
	}
	return fmt.Sprintf("%d %d/%d\"", whole, sixteenths/d, 16/d)
}

// ParseDimension parses user input into millimetres. Metric accepts "12.5"
// and "12.5mm". Imperial accepts decimal inches with an optional trailing
// quote, and fractions such as "3/4" or "24 1/2\"".
func ParseDimension(input string, unit model.UnitSystem) (float64, error) {
	s := strings.TrimSpace(input)

	if unit == model.UnitMetric {
		m := metricPattern.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("%q: %w", input, ErrInvalidDimension)
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", input, ErrInvalidDimension)
		}
		return v, nil
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		whole := 0
		if m[1] != "" {
			whole, _ = strconv.Atoi(m[1])
		}
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den == 0 {
			return 0, fmt.Errorf("%q: zero denominator: %w", input, ErrInvalidDimension)
		}
		return ToMillimeters(float64(whole)+float64(num)/float64(den), model.UnitImperial), nil
	}

	if m := decimalPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", input, ErrInvalidDimension)
		}
		return ToMillimeters(v, model.UnitImperial), nil
	}

	return 0, fmt.Errorf("%q: %w", input, ErrInvalidDimension)
}
