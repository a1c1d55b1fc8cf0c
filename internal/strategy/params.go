package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// intParam reads an integer parameter, tolerating the numeric types YAML
// and JSON decoders produce. Missing keys fall back to the default.
func intParam(params map[string]any, key string, def int) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("parameter %q must be a whole number, got %v", key, v)
		}

		return int(v), nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer, got %T", key, raw)
	}
}

// decimalParam reads an exact decimal parameter. Strings parse without a
// float round trip; bare YAML numbers go through their printed form.
func decimalParam(params map[string]any, key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}

	value, err := decimal.NewFromString(fmt.Sprint(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parameter %q is not a valid decimal: %w", key, err)
	}

	return value, nil
}
