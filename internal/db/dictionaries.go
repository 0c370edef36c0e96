package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/types"
)

// AddDictionaryTerm inserts a curated term into the hard or soft dictionary.
// Re-adding an existing term is a no-op that returns the stored row.
func (db *DB) AddDictionaryTerm(ctx context.Context, kind, term string) (*types.DictionaryTerm, error) {
	var t types.DictionaryTerm
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skill_dictionary (kind, term)
		 VALUES ($1, $2)
		 ON CONFLICT (kind, term) DO UPDATE SET term = EXCLUDED.term
		 RETURNING id, kind, term, created_at`,
		kind, term,
	).Scan(&t.ID, &t.Kind, &t.Term, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add dictionary term: %w", err)
	}
	return &t, nil
}

// DeleteDictionaryTerm removes a curated term. Returns false when no row matched.
func (db *DB) DeleteDictionaryTerm(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM skill_dictionary WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dictionary term: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListDictionaryTerms returns all curated terms of a kind, or all terms when
// kind is empty.
func (db *DB) ListDictionaryTerms(ctx context.Context, kind string) ([]types.DictionaryTerm, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, term, created_at
		 FROM skill_dictionary
		 WHERE ($1 = '' OR kind = $1)
		 ORDER BY kind, term`,
		kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionary terms: %w", err)
	}
	defer rows.Close()

	var terms []types.DictionaryTerm
	for rows.Next() {
		var t types.DictionaryTerm
		if err := rows.Scan(&t.ID, &t.Kind, &t.Term, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// AddSynonymRule inserts or replaces the rule for a token.
func (db *DB) AddSynonymRule(ctx context.Context, token, canonicalForm, category string) (*types.SynonymRule, error) {
	var r types.SynonymRule
	err := db.pool.QueryRow(ctx,
		`INSERT INTO synonym_rules (token, canonical_form, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO UPDATE SET canonical_form = $2, category = $3
		 RETURNING id, token, canonical_form, category, created_at`,
		token, canonicalForm, category,
	).Scan(&r.ID, &r.Token, &r.CanonicalForm, &r.Category, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add synonym rule: %w", err)
	}
	return &r, nil
}

// DeleteSynonymRule removes a rule. Returns false when no row matched.
func (db *DB) DeleteSynonymRule(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM synonym_rules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete synonym rule: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListSynonymRules returns all synonym rules ordered by token.
func (db *DB) ListSynonymRules(ctx context.Context) ([]types.SynonymRule, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, token, canonical_form, category, created_at
		 FROM synonym_rules ORDER BY token`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list synonym rules: %w", err)
	}
	defer rows.Close()

	var rules []types.SynonymRule
	for rows.Next() {
		var r types.SynonymRule
		if err := rows.Scan(&r.ID, &r.Token, &r.CanonicalForm, &r.Category, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan synonym rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// LoadSnapshot reads the full dictionary state into an immutable snapshot.
// The version is the epoch micros of the latest curation write, so any edit
// produces a strictly newer version.
func (db *DB) LoadSnapshot(ctx context.Context) (*dictionary.Snapshot, error) {
	var version int64
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(
		    (SELECT EXTRACT(EPOCH FROM MAX(created_at)) * 1000000 FROM (
		        SELECT created_at FROM skill_dictionary
		        UNION ALL
		        SELECT created_at FROM synonym_rules
		    ) t), 0)::BIGINT`,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary version: %w", err)
	}

	terms, err := db.ListDictionaryTerms(ctx, "")
	if err != nil {
		return nil, err
	}
	rules, err := db.ListSynonymRules(ctx)
	if err != nil {
		return nil, err
	}

	var hard, soft []string
	for _, t := range terms {
		switch dictionary.SkillKind(t.Kind) {
		case dictionary.KindHard:
			hard = append(hard, t.Term)
		case dictionary.KindSoft:
			soft = append(soft, t.Term)
		}
	}
	return dictionary.NewSnapshot(version, hard, soft, rules), nil
}
