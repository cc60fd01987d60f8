package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/ragdash-backend/internal/domain"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureIndexes adds the composite indexes behind the list queries.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_sources_service_created", `CREATE INDEX IF NOT EXISTS idx_sources_service_created ON sources (service_id, created_at)`},
		{"idx_chunks_source_index", `CREATE INDEX IF NOT EXISTS idx_chunks_source_index ON chunks (service_id, source_id, chunk_index)`},
		{"idx_chat_history_session_created", `CREATE INDEX IF NOT EXISTS idx_chat_history_session_created ON chat_history (service_id, session_id, created_at)`},
		{"idx_feedback_service_created", `CREATE INDEX IF NOT EXISTS idx_feedback_service_created ON feedback (service_id, created_at)`},
		{"idx_writing_styles_service_created", `CREATE INDEX IF NOT EXISTS idx_writing_styles_service_created ON writing_styles (service_id, created_at)`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}

// EnsureVectorColumn adds the pgvector embedding column the ingestion
// service writes into. Postgres only.
func EnsureVectorColumn(db *gorm.DB, dims int) error {
	if dims <= 0 {
		dims = 1536
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}
	if err := db.Exec(fmt.Sprintf(`ALTER TABLE chunks ADD COLUMN IF NOT EXISTS embedding vector(%d);`, dims)).Error; err != nil {
		return fmt.Errorf("add chunks.embedding: %w", err)
	}
	return nil
}

type MigrateOptions struct {
	VectorColumn bool
	VectorDims   int
}

// Migrate runs the schema migration for d.
func Migrate(log *logger.Logger, d Database, opts MigrateOptions) error {
	log.Info("Auto migrating tables...", "dialect", d.Dialect())
	if err := AutoMigrateAll(d.DB()); err != nil {
		log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(d.DB()); err != nil {
		log.Error("Index migration failed", "error", err)
		return err
	}
	if opts.VectorColumn && d.Dialect() == DialectPostgres {
		if err := EnsureVectorColumn(d.DB(), opts.VectorDims); err != nil {
			log.Warn("Vector column migration skipped", "error", err)
		}
	}
	return nil
}
