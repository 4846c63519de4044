package discrepancy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/temirov/itamaudit/internal/inventory"
)

const maximumReportedMissingNumbersConstant = 50

var (
	designatorPrefixPattern = regexp.MustCompile(`^[A-Za-z]+`)
	designatorNumberPattern = regexp.MustCompile(`[0-9]+`)
)

// SequenceGap describes a floor plan whose designator numbers for one prefix are not contiguous.
type SequenceGap struct {
	FloorPlan string `yaml:"floor_plan"`
	Prefix    string `yaml:"prefix"`
	Lowest    int    `yaml:"lowest"`
	Highest   int    `yaml:"highest"`
	Missing   []int  `yaml:"missing"`
	Truncated bool   `yaml:"truncated,omitempty"`
}

type sequenceBucket struct {
	floorPlan string
	prefix    string
	numbers   map[int]struct{}
}

// FindSequenceGaps groups designators by new floor plan and alphabetic prefix
// and reports every group whose numbers skip values. Groups appear in order of
// first occurrence.
func FindSequenceGaps(records []inventory.Record) []SequenceGap {
	bucketPositions := make(map[string]int)
	var buckets []sequenceBucket

	for _, record := range records {
		floorPlan, floorPlanPresent := record.FloorPlanNew.Value()
		designator, designatorPresent := record.Designator.Value()
		if !floorPlanPresent || !designatorPresent {
			continue
		}
		numberText := designatorNumberPattern.FindString(designator)
		if len(numberText) == 0 {
			continue
		}
		number, parseError := strconv.Atoi(numberText)
		if parseError != nil {
			continue
		}
		prefix := strings.ToUpper(designatorPrefixPattern.FindString(designator))

		bucketKey := floorPlan + keyValueSeparatorConstant + prefix
		position, exists := bucketPositions[bucketKey]
		if !exists {
			position = len(buckets)
			bucketPositions[bucketKey] = position
			buckets = append(buckets, sequenceBucket{floorPlan: floorPlan, prefix: prefix, numbers: make(map[int]struct{})})
		}
		buckets[position].numbers[number] = struct{}{}
	}

	var gaps []SequenceGap
	for _, bucket := range buckets {
		numbers := make([]int, 0, len(bucket.numbers))
		for number := range bucket.numbers {
			numbers = append(numbers, number)
		}
		sort.Ints(numbers)

		lowest := numbers[0]
		highest := numbers[len(numbers)-1]
		if highest-lowest+1 == len(numbers) {
			continue
		}

		gap := SequenceGap{FloorPlan: bucket.floorPlan, Prefix: bucket.prefix, Lowest: lowest, Highest: highest}
		for candidate := lowest + 1; candidate < highest; candidate++ {
			if _, exists := bucket.numbers[candidate]; exists {
				continue
			}
			if len(gap.Missing) == maximumReportedMissingNumbersConstant {
				gap.Truncated = true
				break
			}
			gap.Missing = append(gap.Missing, candidate)
		}
		gaps = append(gaps, gap)
	}

	return gaps
}
