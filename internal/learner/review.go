package learner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/palabra/internal/cache"
	"github.com/abhisek/palabra/internal/gamify"
	"github.com/abhisek/palabra/internal/knowledge"
	"github.com/abhisek/palabra/internal/srs"
	"github.com/abhisek/palabra/internal/store"
)

// ReviewInput is one answered review card.
type ReviewInput struct {
	UserID         string
	Word           string
	Language       string
	Correct        bool
	ResponseTimeMs int
}

// ReviewOutcome is everything a submission changed.
type ReviewOutcome struct {
	Quality   srs.Quality
	Result    srs.Result
	Card      *srs.Card
	Knowledge *knowledge.WordKnowledge
	Award     gamify.Award
	Sequence  int64
	Attempts  int
}

// ReviewService grades and persists reviews. Submissions for the same card
// are serialized through the card version: a concurrent update makes the
// transaction fail with store.ErrVersionConflict and the whole submission
// is reloaded and retried.
type ReviewService struct {
	store      *store.Store
	cache      cache.Cache
	thresholds srs.Thresholds
	maxRetries int
	log        zerolog.Logger
	now        func() time.Time
}

// testHookCardLoaded, when set by tests, runs inside the submit transaction
// right after the card is loaded.
var testHookCardLoaded func(tx *store.Tx, card *srs.Card) error

// NewReviewService builds the service. c may be nil.
func NewReviewService(st *store.Store, c cache.Cache, thresholds srs.Thresholds, maxRetries int, log zerolog.Logger) *ReviewService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ReviewService{
		store:      st,
		cache:      c,
		thresholds: thresholds,
		maxRetries: maxRetries,
		log:        log,
		now:        time.Now,
	}
}

// Submit grades in and applies it to the card, the knowledge record, the
// review log and the learner's stats in a single transaction. A word that
// was never saved gets a card on its first review.
func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (*ReviewOutcome, error) {
	word, err := normalizeWord(in.Word)
	if err != nil {
		return nil, err
	}
	in.Word = word

	q, err := s.thresholds.Infer(in.Correct, in.ResponseTimeMs)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		now := s.now().UTC()
		out, err := s.submitOnce(ctx, in, q, now)
		if err == nil {
			out.Attempts = attempt
			s.invalidateFeed(ctx, in.UserID)
			s.log.Debug().
				Str("user", in.UserID).
				Str("word", in.Word).
				Int("quality", int(q)).
				Int("interval", out.Result.Interval).
				Float64("ease", out.Result.EaseFactor).
				Msg("review recorded")
			return out, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= s.maxRetries {
			return nil, err
		}
		s.log.Debug().Err(err).Int("attempt", attempt).Str("word", in.Word).Msg("review conflict, retrying")
	}
}

func (s *ReviewService) submitOnce(ctx context.Context, in ReviewInput, q srs.Quality, now time.Time) (*ReviewOutcome, error) {
	out := &ReviewOutcome{Quality: q}
	err := s.store.WithTx(ctx, func(tx *store.Tx) error {
		card, created, err := loadCard(ctx, tx, in.UserID, in.Word, in.Language, now)
		if err != nil {
			return err
		}
		if testHookCardLoaded != nil {
			if err := testHookCardLoaded(tx, card); err != nil {
				return err
			}
		}

		res, err := card.Review(srs.Outcome{Quality: q, ResponseTimeMs: in.ResponseTimeMs}, in.Correct, now)
		if err != nil {
			return err
		}
		if created {
			err = tx.Cards().Create(ctx, card)
		} else {
			err = tx.Cards().Update(ctx, card)
		}
		if err != nil {
			return err
		}

		wk, err := loadKnowledge(ctx, tx, in.UserID, in.Word, in.Language, now)
		if err != nil {
			return err
		}
		wk.ApplyReview(q, res, now)
		if err := tx.Knowledge().Upsert(ctx, wk); err != nil {
			return err
		}

		seq, err := tx.Events().AppendReview(ctx, store.ReviewEvent{
			Timestamp:      now,
			UserID:         in.UserID,
			Word:           in.Word,
			Language:       in.Language,
			Correct:        in.Correct,
			ResponseTimeMs: in.ResponseTimeMs,
			Quality:        int(q),
			Interval:       res.Interval,
			EaseFactor:     res.EaseFactor,
			Repetitions:    res.Repetitions,
		})
		if err != nil {
			return err
		}

		stats, err := tx.Stats().Get(ctx, in.UserID)
		if err != nil {
			return err
		}
		award := stats.Record(in.Correct, q, now)
		if err := tx.Stats().Save(ctx, stats); err != nil {
			return err
		}

		out.Result = res
		out.Card = card
		out.Knowledge = wk
		out.Award = award
		out.Sequence = seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save adds a word to the learner's review deck. Saving a word that is
// already in the deck is not an error; created reports whether it was new.
func (s *ReviewService) Save(ctx context.Context, userID, word, language string) (card *srs.Card, created bool, err error) {
	w, err := normalizeWord(word)
	if err != nil {
		return nil, false, err
	}
	now := s.now().UTC()

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		card, created, err = loadCard(ctx, tx, userID, w, language, now)
		if err != nil || !created {
			return err
		}
		if err := tx.Cards().Create(ctx, card); err != nil {
			return err
		}
		wk, err := loadKnowledge(ctx, tx, userID, w, language, now)
		if err != nil {
			return err
		}
		return tx.Knowledge().Upsert(ctx, wk)
	})
	if err != nil {
		return nil, false, err
	}
	return card, created, nil
}

// Due returns the learner's due cards, most overdue first.
func (s *ReviewService) Due(ctx context.Context, userID, language string, limit int) ([]*srs.Card, error) {
	return s.store.Cards().Due(ctx, userID, language, s.now().UTC(), limit)
}

// Infer exposes the configured quality inference for callers that want to
// show the grade before submitting.
func (s *ReviewService) Infer(correct bool, responseTimeMs int) (srs.Quality, error) {
	return s.thresholds.Infer(correct, responseTimeMs)
}

func (s *ReviewService) invalidateFeed(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.FeedKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("invalidate feed cache")
	}
}

func loadCard(ctx context.Context, tx *store.Tx, userID, word, language string, now time.Time) (*srs.Card, bool, error) {
	card, err := tx.Cards().Get(ctx, userID, word, language)
	if errors.Is(err, store.ErrNotFound) {
		return srs.NewCard(userID, word, language, now), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load card: %w", err)
	}
	return card, false, nil
}

func loadKnowledge(ctx context.Context, tx *store.Tx, userID, word, language string, now time.Time) (*knowledge.WordKnowledge, error) {
	wk, err := tx.Knowledge().Get(ctx, userID, word, language)
	if errors.Is(err, store.ErrNotFound) {
		return knowledge.New(userID, word, language, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load knowledge: %w", err)
	}
	return wk, nil
}
