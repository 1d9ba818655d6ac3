package audit

// schema is applied on open. CREATE IF NOT EXISTS keeps it idempotent across
// restarts against the same database file.
const schema = `
CREATE TABLE IF NOT EXISTS bridge_calls (
    id          TEXT PRIMARY KEY,
    request_id  TEXT NOT NULL,
    method      TEXT NOT NULL,
    path        TEXT NOT NULL,
    status      INTEGER NOT NULL,
    error_kind  TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL,
    created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bridge_calls_created_at ON bridge_calls(created_at);
CREATE INDEX IF NOT EXISTS idx_bridge_calls_request_id ON bridge_calls(request_id);
`
