package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- URLs seen by publish, split into components
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    canonical_url TEXT,
    scheme TEXT NOT NULL,
    domain TEXT NOT NULL,
    path TEXT,
    fragment TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    -- Top keywords as JSON object: {"word1": count1, "word2": count2, ...}
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);

CREATE TABLE IF NOT EXISTS url_query_params (
    param_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_params_url ON url_query_params(url_id);

-- Every fetch attempt, successful or not
CREATE TABLE IF NOT EXISTS url_accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status_code INTEGER,
    error_type TEXT,
    success BOOLEAN NOT NULL,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accesses_url ON url_accesses(url_id);

-- Pages created in Notion
CREATE TABLE IF NOT EXISTS publications (
    publication_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    page_id TEXT NOT NULL,
    title TEXT,
    content_hash TEXT NOT NULL,
    tags TEXT,               -- JSON array
    block_count INTEGER DEFAULT 0,
    published_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_publications_url ON publications(url_id);
CREATE INDEX IF NOT EXISTS idx_publications_time ON publications(published_at);
`
