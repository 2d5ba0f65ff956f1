package store

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hivesocial/chatmirror/internal/config"
	"github.com/hivesocial/chatmirror/migrations"
)

// messageColumns is the fixed set of columns added to messages after the base
// schema shipped. EnsureMessageColumns adds whichever of these a database is
// missing, so installs created by any earlier app version converge on the
// same shape without a destructive migration.
var messageColumns = []string{
	"shared_post_json",
	"shared_news_json",
	"shared_showcase_json",
	"shared_user_json",
	"card_type",
	"preview_title",
	"preview_description",
	"preview_image_url",
	"card_data",
}

// Store owns the single embedded-database handle shared by all mirrors.
// When opening fails the handle stays nil and every dependent operation
// degrades to a cache miss instead of failing the feature.
type Store struct {
	db *gorm.DB
}

var (
	defaultStore *Store
	openOnce     sync.Once
)

// Default opens the process-wide store exactly once and returns it on every
// subsequent call, regardless of the config passed later.
func Default(cfg config.StoreConfig) *Store {
	openOnce.Do(func() {
		defaultStore = Open(cfg)
	})
	return defaultStore
}

// Open creates or opens the SQLite file and brings the schema up to date.
// It never returns nil; a store that failed to open reports Ready() == false.
func Open(cfg config.StoreConfig) *Store {
	s := &Store{}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", cfg.Dir).Msg("cannot create store directory, local cache disabled")
		return s
	}

	path := cfg.Path()
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("cannot open local store, local cache disabled")
		return s
	}

	// Versioned migrations first; fall back to AutoMigrate for databases the
	// migration tool cannot adopt (e.g. created before it was introduced).
	if err := migrations.Run(path); err != nil {
		log.Warn().Err(err).Msg("versioned migrations failed, falling back to auto migration")
		if err := db.AutoMigrate(&ConversationRow{}, &MessageRow{}); err != nil {
			log.Error().Err(err).Msg("schema setup failed, local cache disabled")
			return s
		}
	}

	s.db = db
	if err := s.EnsureMessageColumns(); err != nil {
		log.Warn().Err(err).Msg("could not verify message columns")
	}

	log.Info().Str("path", path).Msg("local store ready")
	return s
}

// Ready reports whether the store can serve reads and writes
func (s *Store) Ready() bool {
	return s != nil && s.db != nil
}

// DB exposes the underlying handle to the mirror layer. Nil when not Ready.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// EnsureMessageColumns introspects the live messages table and issues an
// additive ADD COLUMN for each expected column that is absent. Idempotent:
// a table that already has every column is left untouched.
func (s *Store) EnsureMessageColumns() error {
	if !s.Ready() {
		return nil
	}
	m := s.db.Migrator()
	for _, col := range messageColumns {
		if m.HasColumn(&MessageRow{}, col) {
			continue
		}
		if err := m.AddColumn(&MessageRow{}, col); err != nil {
			return err
		}
		log.Info().Str("column", col).Msg("added messages column")
	}
	return nil
}
