// Package learner is the application layer around the scheduler and the
// ranker. It loads learner state from the store, calls the pure core
// functions and persists the outcome.
package learner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/palabra/internal/cefr"
	"github.com/abhisek/palabra/internal/content"
	"github.com/abhisek/palabra/internal/feed"
	"github.com/abhisek/palabra/internal/store"
)

// Profile defaults for learners that have not configured anything.
const (
	DefaultTargetLanguage  = "es"
	DefaultNativeLanguage  = "en"
	DefaultLevel           = "A1"
	DefaultEngagementScore = 0.5
)

// DefaultProfile is the profile a new learner starts with.
func DefaultProfile(userID string) *store.Profile {
	return &store.Profile{
		UserID:              userID,
		TargetLanguage:      DefaultTargetLanguage,
		NativeLanguage:      DefaultNativeLanguage,
		CurrentLevel:        DefaultLevel,
		PreferredDifficulty: feed.DefaultPreferredDifficulty,
		EngagementScore:     DefaultEngagementScore,
	}
}

// LoadProfile returns the stored profile or DefaultProfile when the user
// has none yet. The default is not saved.
func LoadProfile(ctx context.Context, repo *store.ProfileRepo, userID string) (*store.Profile, error) {
	p, err := repo.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultProfile(userID), nil
	}
	return p, err
}

// ProfileUpdate holds optional profile changes. Nil fields are left alone.
type ProfileUpdate struct {
	TargetLanguage      *string
	NativeLanguage      *string
	Level               *string
	PreferredDifficulty *float64
	EngagementScore     *float64
}

// UpdateProfile applies u to the user's profile and saves it.
func UpdateProfile(ctx context.Context, st *store.Store, userID string, u ProfileUpdate, now time.Time) (*store.Profile, error) {
	p, err := LoadProfile(ctx, st.Profiles(), userID)
	if err != nil {
		return nil, err
	}

	if u.TargetLanguage != nil {
		p.TargetLanguage = strings.ToLower(strings.TrimSpace(*u.TargetLanguage))
	}
	if u.NativeLanguage != nil {
		p.NativeLanguage = strings.ToLower(strings.TrimSpace(*u.NativeLanguage))
	}
	if u.Level != nil {
		l, ok := cefr.Parse(*u.Level)
		if !ok {
			return nil, fmt.Errorf("unknown CEFR level %q", *u.Level)
		}
		p.CurrentLevel = l.String()
	}
	if u.PreferredDifficulty != nil {
		if v := *u.PreferredDifficulty; v <= 0 || v > 1 {
			return nil, fmt.Errorf("preferred difficulty %v outside (0, 1]", v)
		}
		p.PreferredDifficulty = *u.PreferredDifficulty
	}
	if u.EngagementScore != nil {
		if v := *u.EngagementScore; v < 0 || v > 1 {
			return nil, fmt.Errorf("engagement score %v outside [0, 1]", v)
		}
		p.EngagementScore = *u.EngagementScore
	}
	if p.TargetLanguage == "" || p.TargetLanguage == p.NativeLanguage {
		return nil, fmt.Errorf("target language %q must be set and differ from native language", p.TargetLanguage)
	}

	p.UpdatedAt = now
	if err := st.Profiles().Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// normalizeWord lower-cases and trims a word and rejects empty input.
func normalizeWord(word string) (string, error) {
	w := content.Normalize(word)
	if w == "" {
		return "", errors.New("word must not be empty")
	}
	return w, nil
}
