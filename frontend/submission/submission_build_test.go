package submission

import (
	"errors"
	"strings"
	"testing"

	"popcheck/models"
)

func branchItems(names ...string) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(names))
	for i, name := range names {
		items = append(items, models.CatalogItem{
			ID:     models.ItemID("BranchA", name),
			Branch: "BranchA",
			Item:   name,
			Qty:    i + 1,
		})
	}
	return items
}

func checkedSet(items []models.CatalogItem, n int) func(string) bool {
	set := make(map[string]bool, n)
	for i := 0; i < n && i < len(items); i++ {
		set[items[i].ID] = true
	}
	return func(id string) bool { return set[id] }
}

func TestDeriveMode(t *testing.T) {
	cases := []struct {
		anyMissing, defect bool
		want               Mode
	}{
		{true, false, ModeMissingItems},
		{true, true, ModeMissingItems},
		{false, true, ModeDefectReport},
		{false, false, ModeComplete},
	}
	for _, c := range cases {
		if got := DeriveMode(c.anyMissing, c.defect); got != c.want {
			t.Fatalf("DeriveMode(%v, %v) = %v, want %v", c.anyMissing, c.defect, got, c.want)
		}
	}
}

func TestMissingItemsModeRequiresNoteOrPhoto(t *testing.T) {
	items := branchItems("Widget", "Poster", "Standee", "Banner", "Mobile")
	checked := checkedSet(items, 3)

	_, _, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "", nil, false)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Mode != ModeMissingItems {
		t.Fatalf("expected missing-items validation error, got %v", err)
	}

	report, mode, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "courier shorted the delivery", nil, false)
	if err != nil {
		t.Fatalf("note alone must satisfy the rule: %v", err)
	}
	if mode != ModeMissingItems {
		t.Fatalf("expected missing-items mode, got %v", mode)
	}

	lines := strings.Split(report.MissingItems, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 missing lines, got %q", report.MissingItems)
	}
	if lines[0] != "Banner x4" || lines[1] != "Mobile x5" {
		t.Fatalf("unexpected missing lines: %q", report.MissingItems)
	}
	if report.Note != "courier shorted the delivery" {
		t.Fatalf("note must be kept verbatim, got %q", report.Note)
	}
}

func TestDefectModeRequiresNoteAndPhoto(t *testing.T) {
	items := branchItems("Widget", "Poster")
	checked := checkedSet(items, 2)

	for _, c := range []struct {
		note   string
		images []string
	}{
		{"", nil},
		{"broken standee", nil},
		{"", []string{"photo"}},
	} {
		_, _, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, c.note, c.images, true)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Mode != ModeDefectReport {
			t.Fatalf("note=%q images=%d: expected defect validation error, got %v", c.note, len(c.images), err)
		}
	}

	report, mode, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "broken standee", []string{"photo"}, true)
	if err != nil || mode != ModeDefectReport {
		t.Fatalf("expected defect report, mode=%v err=%v", mode, err)
	}
	if report.MissingItems != MissingNone {
		t.Fatalf("complete check state must report the none sentinel, got %q", report.MissingItems)
	}
}

func TestCompleteModeRequiresPhotoAndSetsFixedNote(t *testing.T) {
	items := branchItems("Widget", "Poster", "Standee", "Banner", "Mobile")
	checked := checkedSet(items, 5)

	_, _, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "", nil, false)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Mode != ModeComplete {
		t.Fatalf("expected complete validation error, got %v", err)
	}

	report, mode, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "ignored", []string{"photo"}, false)
	if err != nil || mode != ModeComplete {
		t.Fatalf("expected complete report, mode=%v err=%v", mode, err)
	}
	if report.Note != NoteFullyReceived {
		t.Fatalf("complete mode must set the fixed note, got %q", report.Note)
	}
	if report.MissingItems != MissingNone {
		t.Fatalf("expected none sentinel, got %q", report.MissingItems)
	}
	if report.TrackingID == "" {
		t.Fatalf("expected tracking id on built report")
	}
}

func TestValidateRejectsMissingPreconditions(t *testing.T) {
	items := branchItems("Widget")
	checked := checkedSet(items, 1)

	if _, _, err := ValidateAndBuild("", "2026-08-28", items, checked, "", []string{"p"}, false); err == nil {
		t.Fatalf("expected branch requirement")
	}
	if _, _, err := ValidateAndBuild("BranchA", "", items, checked, "", []string{"p"}, false); err == nil {
		t.Fatalf("expected date requirement")
	}
	if _, _, err := ValidateAndBuild("BranchA", "2026-08-28", items, checked, "", []string{"a", "b", "c", "d"}, false); err == nil {
		t.Fatalf("expected photo count limit")
	}
}
