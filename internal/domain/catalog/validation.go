package catalog

import (
	"regexp"
	"strings"
)

var projectCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)

// ValidateProjectInput validates fields required to create a project.
func ValidateProjectInput(req CreateProjectRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	if !projectCodePattern.MatchString(req.Code) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateMaterialID checks that an explicitly supplied material group
// identifier is in the "{stratUnitID}-{number}" form for its unit.
func ValidateMaterialID(stratUnitID, materialID string) error {
	pattern, err := regexp.Compile(`^` + regexp.QuoteMeta(stratUnitID) + `-\d+$`)
	if err != nil {
		return ErrInvalidInput
	}
	if !pattern.MatchString(materialID) {
		return ErrInvalidInput
	}
	return nil
}
