package query

import (
	"fmt"
	"strconv"
	"strings"
)

// compare applies a comparison operator to a row value and a literal.
//
// Both sides are coerced to numbers when either side looks numeric; on
// success the comparison is numeric. Otherwise both sides fall back to
// their stored string forms and compare lexicographically. The result is
// total: values that fit neither rule compare as unequal.
func compare(left interface{}, operator TokenType, right interface{}) bool {
	if looksNumeric(left) || looksNumeric(right) {
		leftNum, leftOK := toFloat64(left)
		rightNum, rightOK := toFloat64(right)
		if leftOK && rightOK {
			return compareNumbers(leftNum, operator, rightNum)
		}
	}

	return compareStrings(stringForm(left), operator, stringForm(right))
}

// looksNumeric reports whether a value is already numeric or is a string of
// digits with at most one decimal point.
func looksNumeric(v interface{}) bool {
	switch val := v.(type) {
	case float64, int64:
		return true
	case string:
		s := strings.Replace(val, ".", "", 1)
		if s == "" {
			return false
		}
		for _, ch := range s {
			if ch < '0' || ch > '9' {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// toFloat64 converts a scalar to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case string:
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

// stringForm returns the stored string form of a scalar
func stringForm(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// compareNumbers compares two numbers
func compareNumbers(left float64, operator TokenType, right float64) bool {
	switch operator {
	case TokenEquals:
		return left == right
	case TokenNotEquals:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}

// compareStrings compares two strings (case-sensitive)
func compareStrings(left string, operator TokenType, right string) bool {
	switch operator {
	case TokenEquals:
		return left == right
	case TokenNotEquals:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}
