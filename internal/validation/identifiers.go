// Package validation checks Polish business identifiers before they are
// sent to the registry.
package validation

import "strings"

var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

var regonWeights = [8]int{8, 9, 2, 3, 4, 5, 6, 7}

// ValidNIP reports whether s is a well-formed 10-digit NIP with a correct
// mod-11 checksum. Separators (dashes, spaces) are tolerated.
func ValidNIP(s string) bool {
	digits := normalize(s)
	if len(digits) != 10 {
		return false
	}

	sum := 0
	for i, w := range nipWeights {
		sum += int(digits[i]-'0') * w
	}
	check := sum % 11
	if check == 10 {
		return false
	}
	return check == int(digits[9]-'0')
}

// ValidREGON reports whether s is a well-formed 9-digit REGON with a
// correct mod-11 checksum.
func ValidREGON(s string) bool {
	digits := normalize(s)
	if len(digits) != 9 {
		return false
	}

	sum := 0
	for i, w := range regonWeights {
		sum += int(digits[i]-'0') * w
	}
	check := sum % 11
	if check == 10 {
		check = 0
	}
	return check == int(digits[8]-'0')
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ':
			// separator, skip
		default:
			return ""
		}
	}
	return b.String()
}
