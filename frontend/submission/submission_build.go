// Package submission validates report preconditions and builds the
// outbound payload for the central log.
package submission

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"popcheck/models"
)

// Mode is the report variant derived from the check state and the
// operator's defect override. The three modes are mutually exclusive.
type Mode string

const (
	// ModeMissingItems: at least one branch item is still unchecked.
	ModeMissingItems Mode = "missing-items"
	// ModeDefectReport: everything received but damaged goods are
	// being reported.
	ModeDefectReport Mode = "defect-report"
	// ModeComplete: everything received intact.
	ModeComplete Mode = "complete"
)

// NoteFullyReceived is the fixed note attached to complete reports.
const NoteFullyReceived = "ได้รับครบถ้วน"

// MissingNone marks a report with no missing items.
const MissingNone = "ไม่มี"

// MaxImages bounds the photo evidence per report.
const MaxImages = 3

// ValidationError blocks a submission and carries the operator-facing
// message for the violated evidence rule.
type ValidationError struct {
	Mode    Mode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DeriveMode selects the report variant. The defect override only
// applies once every item is checked; open missing items always win.
func DeriveMode(anyMissing, defectMode bool) Mode {
	switch {
	case anyMissing:
		return ModeMissingItems
	case defectMode:
		return ModeDefectReport
	default:
		return ModeComplete
	}
}

// MissingItems returns the branch items still unchecked, in catalog
// order.
func MissingItems(items []models.CatalogItem, checked func(id string) bool) []models.CatalogItem {
	missing := make([]models.CatalogItem, 0)
	for _, item := range items {
		if !checked(item.ID) {
			missing = append(missing, item)
		}
	}
	return missing
}

// ValidateAndBuild applies the evidence rules for the derived mode and
// constructs the report payload. No partial payload is ever produced:
// a validation failure returns only the error.
func ValidateAndBuild(branchLabel, date string, branchItems []models.CatalogItem, checked func(id string) bool, note string, images []string, defectMode bool) (models.Report, Mode, error) {
	note = strings.TrimSpace(note)

	if strings.TrimSpace(branchLabel) == "" {
		return models.Report{}, "", &ValidationError{Message: "branch is required"}
	}
	if strings.TrimSpace(date) == "" {
		return models.Report{}, "", &ValidationError{Message: "report date is required"}
	}
	if len(images) > MaxImages {
		return models.Report{}, "", &ValidationError{Message: fmt.Sprintf("at most %d photos can be attached", MaxImages)}
	}

	missing := MissingItems(branchItems, checked)
	mode := DeriveMode(len(missing) > 0, defectMode)

	switch mode {
	case ModeMissingItems:
		if note == "" && len(images) == 0 {
			return models.Report{}, mode, &ValidationError{
				Mode:    mode,
				Message: "missing items require a note or at least one photo",
			}
		}
	case ModeDefectReport:
		if note == "" || len(images) == 0 {
			return models.Report{}, mode, &ValidationError{
				Mode:    mode,
				Message: "a defect report requires both a note and at least one photo",
			}
		}
	case ModeComplete:
		if len(images) == 0 {
			return models.Report{}, mode, &ValidationError{
				Mode:    mode,
				Message: "attach at least one photo of the received materials",
			}
		}
		note = NoteFullyReceived
	}

	return models.Report{
		TrackingID:   uuid.NewString(),
		Branch:       branchLabel,
		Date:         date,
		Note:         note,
		Images:       images,
		MissingItems: missingItemsField(missing),
	}, mode, nil
}

func missingItemsField(missing []models.CatalogItem) string {
	if len(missing) == 0 {
		return MissingNone
	}
	lines := make([]string, 0, len(missing))
	for _, item := range missing {
		lines = append(lines, fmt.Sprintf("%s x%d", item.Item, item.Qty))
	}
	return strings.Join(lines, "\n")
}
