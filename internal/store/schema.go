package store

const schema = `
-- One JSON progress document per user, the same shape the original cloud
-- store held: {profile, stats, topics, updatedAt}.
CREATE TABLE IF NOT EXISTS records (
    user_id    TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
