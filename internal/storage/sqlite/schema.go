// ABOUTME: SQLite database schema for the document archive
// ABOUTME: Creates the chunk records table and its indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Chunk records (overlapping windows of ingested documents)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    original_title TEXT NOT NULL,
    content TEXT NOT NULL,
    source TEXT,
    metadata TEXT,
    chunk_index INTEGER NOT NULL DEFAULT 0,
    total_chunks INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_original_title ON chunks(original_title);
CREATE INDEX IF NOT EXISTS idx_chunks_created_at ON chunks(created_at);
`
