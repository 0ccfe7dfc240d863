package store

// schema runs on every Open. Statements are idempotent so an existing
// database upgrades in place. Timestamps are stored in UTC, which keeps
// text-affinity comparisons consistent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    token      TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);

CREATE TABLE IF NOT EXISTS progress (
    user_id    TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS answer_events (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    a                INTEGER NOT NULL,
    b                INTEGER NOT NULL,
    answer           INTEGER NOT NULL,
    correct          INTEGER NOT NULL,
    response_seconds REAL NOT NULL,
    created_at       TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_answer_events_user ON answer_events(user_id, created_at);
`
