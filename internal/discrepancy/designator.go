package discrepancy

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/temirov/itamaudit/internal/inventory"
)

const remoteLocationKeywordConstant = "remote"

var strictDesignatorPattern = regexp.MustCompile(`^[A-Z][0-9]+$`)

// IsValidDesignator reports whether the record's designator is one letter
// followed by one or more decimal digits. Records located remotely are exempt.
func IsValidDesignator(record inventory.Record) bool {
	if record.EpicLocation.ContainsFold(remoteLocationKeywordConstant) {
		return true
	}
	designator, present := record.Designator.Value()
	if !present {
		return false
	}
	return isLetterThenDigits(designator)
}

// MatchesStrictFormat reports whether a designator is an uppercase ASCII letter followed by digits.
func MatchesStrictFormat(designator inventory.Field) bool {
	value, present := designator.Value()
	return present && strictDesignatorPattern.MatchString(value)
}

func isLetterThenDigits(designator string) bool {
	firstRune, firstRuneWidth := utf8.DecodeRuneInString(designator)
	if firstRune == utf8.RuneError || !unicode.IsLetter(firstRune) {
		return false
	}
	remainder := designator[firstRuneWidth:]
	if len(remainder) == 0 {
		return false
	}
	for index := 0; index < len(remainder); index++ {
		if remainder[index] < '0' || remainder[index] > '9' {
			return false
		}
	}
	return true
}
