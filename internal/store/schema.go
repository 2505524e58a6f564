package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableWordKnowledge = "word_knowledge"
	tableReviewCards   = "review_cards"
	tableContentItems  = "content_items"
	tableUserProfiles  = "user_profiles"
	tableReviewEvents  = "review_events"
	tableInteractions  = "interactions"
	tableUserStats     = "user_stats"
	tableTranslations  = "translations"
	tableLLMEvents     = "llm_request_events"
)

var (
	// WordKnowledgeColumns holds the columns for the "word_knowledge" table.
	WordKnowledgeColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "word", Type: field.TypeString},
		{Name: "language", Type: field.TypeString},
		{Name: "confidence_score", Type: field.TypeFloat64, Default: 0},
		{Name: "next_review_at", Type: field.TypeTime, Nullable: true},
		{Name: "review_interval", Type: field.TypeInt, Default: 0},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "correct_reviews", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_reviews", Type: field.TypeInt, Default: 0},
		{Name: "first_seen_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// WordKnowledgeTable holds the schema information for the "word_knowledge" table.
	WordKnowledgeTable = &schema.Table{
		Name:       tableWordKnowledge,
		Columns:    WordKnowledgeColumns,
		PrimaryKey: []*schema.Column{WordKnowledgeColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "wordknowledge_user_id_word_language",
				Unique:  true,
				Columns: []*schema.Column{WordKnowledgeColumns[1], WordKnowledgeColumns[2], WordKnowledgeColumns[3]},
			},
			{
				Name:    "wordknowledge_user_id_language_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{WordKnowledgeColumns[1], WordKnowledgeColumns[3], WordKnowledgeColumns[5]},
			},
		},
	}

	// ReviewCardsColumns holds the columns for the "review_cards" table.
	ReviewCardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "word", Type: field.TypeString},
		{Name: "language", Type: field.TypeString},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "interval", Type: field.TypeInt, Default: 0},
		{Name: "repetitions", Type: field.TypeInt, Default: 0},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_count", Type: field.TypeInt, Default: 0},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "version", Type: field.TypeInt64, Default: 1},
	}
	// ReviewCardsTable holds the schema information for the "review_cards" table.
	ReviewCardsTable = &schema.Table{
		Name:       tableReviewCards,
		Columns:    ReviewCardsColumns,
		PrimaryKey: []*schema.Column{ReviewCardsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewcard_user_id_word_language",
				Unique:  true,
				Columns: []*schema.Column{ReviewCardsColumns[1], ReviewCardsColumns[2], ReviewCardsColumns[3]},
			},
			{
				Name:    "reviewcard_user_id_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{ReviewCardsColumns[1], ReviewCardsColumns[7]},
			},
		},
	}

	// ContentItemsColumns holds the columns for the "content_items" table.
	ContentItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString, Default: "article"},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString},
		{Name: "cefr_level", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "words", Type: field.TypeJSON},
		{Name: "dopamine_score", Type: field.TypeFloat64, Default: 0},
		{Name: "published_at", Type: field.TypeTime},
	}
	// ContentItemsTable holds the schema information for the "content_items" table.
	ContentItemsTable = &schema.Table{
		Name:       tableContentItems,
		Columns:    ContentItemsColumns,
		PrimaryKey: []*schema.Column{ContentItemsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "contentitem_language_cefr_level",
				Unique:  false,
				Columns: []*schema.Column{ContentItemsColumns[3], ContentItemsColumns[4]},
			},
		},
	}

	// UserProfilesColumns holds the columns for the "user_profiles" table.
	UserProfilesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "target_language", Type: field.TypeString},
		{Name: "native_language", Type: field.TypeString, Default: "en"},
		{Name: "current_level", Type: field.TypeString},
		{Name: "preferred_difficulty", Type: field.TypeFloat64, Default: 0.96},
		{Name: "engagement_score", Type: field.TypeFloat64, Default: 0.5},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UserProfilesTable holds the schema information for the "user_profiles" table.
	UserProfilesTable = &schema.Table{
		Name:       tableUserProfiles,
		Columns:    UserProfilesColumns,
		PrimaryKey: []*schema.Column{UserProfilesColumns[0]},
	}

	// ReviewEventsColumns holds the columns for the "review_events" table.
	ReviewEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "word", Type: field.TypeString},
		{Name: "language", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "response_time_ms", Type: field.TypeInt},
		{Name: "quality", Type: field.TypeInt},
		{Name: "interval", Type: field.TypeInt},
		{Name: "ease_factor", Type: field.TypeFloat64},
		{Name: "repetitions", Type: field.TypeInt},
	}
	// ReviewEventsTable holds the schema information for the "review_events" table.
	ReviewEventsTable = &schema.Table{
		Name:       tableReviewEvents,
		Columns:    ReviewEventsColumns,
		PrimaryKey: []*schema.Column{ReviewEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewevent_user_id_timestamp",
				Unique:  false,
				Columns: []*schema.Column{ReviewEventsColumns[3], ReviewEventsColumns[2]},
			},
		},
	}

	// InteractionsColumns holds the columns for the "interactions" table.
	InteractionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "content_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
	}
	// InteractionsTable holds the schema information for the "interactions" table.
	InteractionsTable = &schema.Table{
		Name:       tableInteractions,
		Columns:    InteractionsColumns,
		PrimaryKey: []*schema.Column{InteractionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "interaction_user_id_sequence",
				Unique:  false,
				Columns: []*schema.Column{InteractionsColumns[3], InteractionsColumns[1]},
			},
		},
	}

	// UserStatsColumns holds the columns for the "user_stats" table.
	UserStatsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "longest_streak", Type: field.TypeInt, Default: 0},
		{Name: "last_active_day", Type: field.TypeTime, Nullable: true},
	}
	// UserStatsTable holds the schema information for the "user_stats" table.
	UserStatsTable = &schema.Table{
		Name:       tableUserStats,
		Columns:    UserStatsColumns,
		PrimaryKey: []*schema.Column{UserStatsColumns[0]},
	}

	// TranslationsColumns holds the columns for the "translations" table.
	TranslationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "word", Type: field.TypeString},
		{Name: "from_language", Type: field.TypeString},
		{Name: "to_language", Type: field.TypeString},
		{Name: "translation", Type: field.TypeString},
		{Name: "part_of_speech", Type: field.TypeString, Default: ""},
		{Name: "example", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// TranslationsTable holds the schema information for the "translations" table.
	TranslationsTable = &schema.Table{
		Name:       tableTranslations,
		Columns:    TranslationsColumns,
		PrimaryKey: []*schema.Column{TranslationsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "translation_word_from_language_to_language",
				Unique:  true,
				Columns: []*schema.Column{TranslationsColumns[1], TranslationsColumns[2], TranslationsColumns[3]},
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		WordKnowledgeTable,
		ReviewCardsTable,
		ContentItemsTable,
		UserProfilesTable,
		ReviewEventsTable,
		InteractionsTable,
		UserStatsTable,
		TranslationsTable,
		LLMRequestEventsTable,
	}
)

// migrate creates or extends every table. It only appends: columns and
// indexes are added, never dropped.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
