package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Profile is a learner's language settings and engagement signal.
type Profile struct {
	UserID              string    `json:"user_id"`
	TargetLanguage      string    `json:"target_language"`
	NativeLanguage      string    `json:"native_language"`
	CurrentLevel        string    `json:"current_level"`
	PreferredDifficulty float64   `json:"preferred_difficulty"`
	EngagementScore     float64   `json:"engagement_score"`
	UpdatedAt           time.Time `json:"updated_at"`
}

var profileColumns = []string{
	"user_id", "target_language", "native_language", "current_level",
	"preferred_difficulty", "engagement_score", "updated_at",
}

// ProfileRepo persists user profiles.
type ProfileRepo struct {
	q querier
}

// Get returns the profile or ErrNotFound.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*Profile, error) {
	sel := builder.Select(profileColumns...).
		From(builder.Table(tableUserProfiles)).
		Where(entsql.EQ("user_id", userID))

	var p Profile
	err := queryRow(ctx, r.q, sel).Scan(
		&p.UserID, &p.TargetLanguage, &p.NativeLanguage, &p.CurrentLevel,
		&p.PreferredDifficulty, &p.EngagementScore, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Save inserts or replaces the profile.
func (r *ProfileRepo) Save(ctx context.Context, p *Profile) error {
	ins := builder.Insert(tableUserProfiles).
		Columns(profileColumns...).
		Values(
			p.UserID, p.TargetLanguage, p.NativeLanguage, p.CurrentLevel,
			p.PreferredDifficulty, p.EngagementScore, p.UpdatedAt.UTC(),
		).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues())
	if _, err := exec(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
