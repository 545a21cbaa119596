package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: households must be created before the tables that reference
// it through foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    address TEXT NOT NULL,
    rent INTEGER NOT NULL DEFAULT 0,
    owner_id TEXT NOT NULL,
    home_code TEXT NOT NULL UNIQUE,
    last_shuffle_date TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    joined_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount INTEGER NOT NULL,
    payer_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    from_member TEXT NOT NULL,
    to_member TEXT NOT NULL,
    amount INTEGER NOT NULL,
    timestamp INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chore_assignments (
    household_id TEXT NOT NULL,
    task_name TEXT NOT NULL,
    task_icon TEXT NOT NULL DEFAULT '',
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    PRIMARY KEY (household_id, task_name),
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chore_days (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    date TEXT NOT NULL,
    assignments_json TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    added_by TEXT NOT NULL DEFAULT '',
    bought INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    sender_name TEXT NOT NULL,
    content TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_household_id ON members(household_id, joined_at);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_window ON transactions(household_id, created_at);
CREATE INDEX IF NOT EXISTS idx_payments_window ON payments(household_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_chore_days_household ON chore_days(household_id, date);
CREATE INDEX IF NOT EXISTS idx_shopping_household ON shopping_items(household_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_household ON messages(household_id, timestamp);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
