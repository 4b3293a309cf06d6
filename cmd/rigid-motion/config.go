package rigidmotion

import (
	"fmt"
	"math"
)

// Config holds the parameters of the rigid-motion scenario. The defaults
// reproduce the flat-plate validation case.
type Config struct {
	Marker    string
	Amplitude float64
	Frequency float64
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	config := &Config{
		Marker:    "plate",
		Amplitude: 0.0175,
		Frequency: 1.0,
	}

	if v, ok := params["marker"]; ok {
		config.Marker = fmt.Sprintf("%v", v)
	}
	if config.Marker == "" {
		return nil, fmt.Errorf("marker must not be empty")
	}

	if v, ok := params["amplitude"]; ok {
		a, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("amplitude must be a number")
		}
		config.Amplitude = a
	}
	if math.IsNaN(config.Amplitude) || math.IsInf(config.Amplitude, 0) {
		return nil, fmt.Errorf("amplitude must be finite")
	}

	if v, ok := params["frequency"]; ok {
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("frequency must be a number")
		}
		config.Frequency = f
	}
	if config.Frequency <= 0 {
		return nil, fmt.Errorf("frequency must be positive")
	}

	return config, nil
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
