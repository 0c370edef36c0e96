//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/hr-screening/internal/types"
)

func TestIntegration_CreateCandidateWritesProfileAtomically(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.SaveTemplate(ctx, &types.JobTemplate{
		RoleName: "itest-create",
		IsOpen:   true,
		Skills: []types.TemplateSkill{
			{Keyword: "go", Importance: types.ImportanceCritical},
		},
	}); err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}

	profile, err := db.CreateCandidate(ctx,
		types.RawExtraction{RawSkills: []string{"Go", "Docker"}},
		types.CandidateProfile{
			RoleName:   "itest-create",
			Contact:    types.ContactInfo{Name: "Sam", Email: "sam@example.com"},
			HardSkills: types.SkillSet{Raw: []string{"go"}, Canonical: []string{"go"}},
			Status:     types.CandidateStatusNew,
		},
	)
	if err != nil {
		t.Fatalf("CreateCandidate failed: %v", err)
	}
	if profile.ID == uuid.Nil {
		t.Fatal("profile ID not assigned")
	}

	// The profile document is complete on first read: it carries the same ID
	// as the row and the canonical skills, never an empty placeholder.
	rec, err := db.GetCandidate(ctx, profile.ID)
	if err != nil || rec == nil {
		t.Fatalf("GetCandidate failed: rec=%v err=%v", rec, err)
	}
	if rec.Profile.ID != profile.ID {
		t.Fatalf("profile document ID %s does not match row ID %s", rec.Profile.ID, profile.ID)
	}
	if len(rec.Profile.HardSkills.Canonical) != 1 || rec.Profile.HardSkills.Canonical[0] != "go" {
		t.Fatalf("profile document incomplete: %+v", rec.Profile.HardSkills)
	}
	if len(rec.RawExtraction.RawSkills) != 2 {
		t.Fatalf("raw extraction not stored verbatim: %+v", rec.RawExtraction)
	}
	if rec.Profile.AppliedAt.IsZero() {
		t.Fatal("applied_at should be stamped by the database")
	}
}
