package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Identifier allocation schemes. All functions are pure: they compute the
// next free identifier from a snapshot of existing sibling identifiers and
// never touch the store. Callers are responsible for re-checking the result
// against the live store before committing, since the snapshot may be stale.

const studyAreaStep = 1000

// NextStudyAreaID returns the next study area identifier: the highest
// parseable existing ID plus 1000, or 1000 when no sibling parses.
// The result is zero-padded to five digits.
func NextStudyAreaID(existing []string) string {
	next := studyAreaStep
	if max, ok := maxNumeric(existing); ok {
		next = max + studyAreaStep
	}
	return fmt.Sprintf("%05d", next)
}

// NextStratUnitID returns the next stratigraphic unit identifier: the
// highest parseable existing ID plus one, seeded at studyAreaID*100+1 when
// the scope is empty.
func NextStratUnitID(studyAreaID string, existing []string) (string, error) {
	if max, ok := maxNumeric(existing); ok {
		return strconv.Itoa(max + 1), nil
	}
	base, err := strconv.Atoi(studyAreaID)
	if err != nil {
		return "", fmt.Errorf("unparseable study area id %q: %w", studyAreaID, err)
	}
	return strconv.Itoa(base*100 + 1), nil
}

// NextContainerID returns the first unused letter-suffixed container
// identifier for the stratigraphic unit, scanning A through Z. There is no
// wraparound to double letters; past Z allocation fails.
func NextContainerID(stratUnitID string, existing []string) (string, error) {
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}
	for letter := 'A'; letter <= 'Z'; letter++ {
		candidate := fmt.Sprintf("%s-%c", stratUnitID, letter)
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return "", ErrLettersExhausted
}

// NextMaterialID returns the next material group identifier for the
// stratigraphic unit: the highest existing numeric suffix plus one,
// formatted as "{stratUnitID}-{n}". Identifiers without a parseable
// numeric suffix are skipped.
func NextMaterialID(stratUnitID string, existing []string) string {
	next := 1
	for _, id := range existing {
		suffix := id
		if i := strings.LastIndex(id, "-"); i >= 0 {
			suffix = id[i+1:]
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%d", stratUnitID, next)
}

// maxNumeric returns the largest integer among the parseable identifiers
// and whether any identifier parsed at all.
func maxNumeric(ids []string) (int, bool) {
	max, found := 0, false
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	return max, found
}
