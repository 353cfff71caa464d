package store

const schema = `
-- Raw documents: one row per indexed chunk of crawled or extracted content
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    title TEXT,
    content TEXT,
    metadata TEXT,
    collection_type TEXT,
    created_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection_type);

-- Full-text mirror of documents over title+content.
-- Porter tokenizer, so query terms are stemmed before matching.
CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts4(
    id,
    title,
    content,
    tokenize=porter
);

-- Structured scheme records extracted from documents with high confidence
CREATE TABLE IF NOT EXISTS schemes (
    id TEXT PRIMARY KEY,
    name TEXT,
    description TEXT,
    eligibility TEXT,
    benefits TEXT,
    subsidy_amount TEXT,
    application_links TEXT,
    state TEXT,
    category TEXT,
    status TEXT,
    metadata TEXT,
    created_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_schemes_state ON schemes(state);
CREATE INDEX IF NOT EXISTS idx_schemes_category ON schemes(category);
CREATE INDEX IF NOT EXISTS idx_schemes_status ON schemes(status);
`
