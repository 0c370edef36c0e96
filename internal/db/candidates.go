package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hr-screening/internal/scoring"
	"github.com/jonathan/hr-screening/internal/types"
)

// CandidateRecord is the stored application: the verbatim raw extraction, the
// canonical profile derived from it, and the latest score if any.
type CandidateRecord struct {
	Profile       types.CandidateProfile `json:"profile"`
	RawExtraction types.RawExtraction    `json:"raw_extraction"`
	Score         *types.ScoreResult     `json:"score,omitempty"`
}

// CreateCandidate stores a new application. The raw extraction is kept
// verbatim so reprocessing can re-run canonicalization on identical input.
// The ID is assigned client-side so the row and its profile document land in
// a single statement; there is never a half-written candidate to observe.
func (db *DB) CreateCandidate(ctx context.Context, raw types.RawExtraction, profile types.CandidateProfile) (*types.CandidateProfile, error) {
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw extraction: %w", err)
	}

	profile.ID = uuid.New()
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (id, role_name, raw_extraction, profile, dictionary_version, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		profile.ID, profile.RoleName, rawJSON, profileJSON, profile.DictionaryVersion, profile.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	stored, err := db.GetCandidate(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("candidate %s vanished after insert", profile.ID)
	}
	return &stored.Profile, nil
}

// GetCandidate retrieves a full candidate record by ID.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*CandidateRecord, error) {
	var rawJSON, profileJSON, scoreJSON []byte
	var rec CandidateRecord
	err := db.pool.QueryRow(ctx,
		`SELECT raw_extraction, profile, score, status, applied_at
		 FROM candidates WHERE id = $1`,
		id,
	).Scan(&rawJSON, &profileJSON, &scoreJSON, &rec.Profile.Status, &rec.Profile.AppliedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if err := json.Unmarshal(rawJSON, &rec.RawExtraction); err != nil {
		return nil, fmt.Errorf("failed to parse raw extraction: %w", err)
	}
	status, appliedAt := rec.Profile.Status, rec.Profile.AppliedAt
	if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	// The status and applied_at columns are authoritative over the stored
	// profile document.
	rec.Profile.ID = id
	rec.Profile.Status = status
	rec.Profile.AppliedAt = appliedAt

	if len(scoreJSON) > 0 {
		var score types.ScoreResult
		if err := json.Unmarshal(scoreJSON, &score); err != nil {
			return nil, fmt.Errorf("failed to parse score: %w", err)
		}
		rec.Score = &score
	}
	return &rec, nil
}

// ReplaceProfile overwrites the stored profile document after reprocessing.
func (db *DB) ReplaceProfile(ctx context.Context, id uuid.UUID, profile types.CandidateProfile) error {
	profile.ID = id
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE candidates SET profile = $1, dictionary_version = $2, updated_at = NOW() WHERE id = $3`,
		profileJSON, profile.DictionaryVersion, id,
	)
	if err != nil {
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}

// SaveScore stores the latest score for a candidate, replacing any previous one.
func (db *DB) SaveScore(ctx context.Context, id uuid.UUID, score types.ScoreResult) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE candidates SET score = $1, updated_at = NOW() WHERE id = $2`,
		scoreJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// UpdateCandidateStatus moves a candidate through the pipeline. Returns false
// when the candidate does not exist.
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCandidates returns all candidate records for a role, or all roles when
// role is empty, ordered by application time.
func (db *DB) ListCandidates(ctx context.Context, role string) ([]CandidateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM candidates
		 WHERE ($1 = '' OR role_name = $1)
		 ORDER BY applied_at`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan candidate id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]CandidateRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := db.GetCandidate(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// RankedCandidates returns the scored candidates for a role in deterministic
// rank order.
func (db *DB) RankedCandidates(ctx context.Context, role string) ([]scoring.RankedCandidate, error) {
	records, err := db.ListCandidates(ctx, role)
	if err != nil {
		return nil, err
	}

	ranked := make([]scoring.RankedCandidate, 0, len(records))
	for _, rec := range records {
		if rec.Score == nil {
			continue
		}
		ranked = append(ranked, scoring.RankedCandidate{Profile: rec.Profile, Score: *rec.Score})
	}
	scoring.Rank(ranked)
	return ranked, nil
}

// AddNote attaches an HR note to a candidate.
func (db *DB) AddNote(ctx context.Context, candidateID uuid.UUID, note string) (*types.CandidateNote, error) {
	var n types.CandidateNote
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidate_notes (candidate_id, note)
		 VALUES ($1, $2)
		 RETURNING id, candidate_id, note, created_at`,
		candidateID, note,
	).Scan(&n.ID, &n.CandidateID, &n.Note, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return &n, nil
}

// ListNotes returns the notes for a candidate, oldest first.
func (db *DB) ListNotes(ctx context.Context, candidateID uuid.UUID) ([]types.CandidateNote, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, note, created_at
		 FROM candidate_notes WHERE candidate_id = $1 ORDER BY created_at`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []types.CandidateNote
	for rows.Next() {
		var n types.CandidateNote
		if err := rows.Scan(&n.ID, &n.CandidateID, &n.Note, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
