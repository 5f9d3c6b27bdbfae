package sqlite

// Schema DDL for all tables. Unsigned 64-bit quantities (ids, values,
// ticks, supplies) are stored as TEXT so that values above the int64 range
// survive SQLite's integer affinity.
const (
	createDefinitions = `CREATE TABLE definitions (
    behavior TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    decimals INTEGER,
    max_level INTEGER,
    ladder_param TEXT,
    stage_thresholds TEXT,
    stage_values TEXT,
    created_at TEXT NOT NULL,
    PRIMARY KEY (behavior, attribute_id)
);`

	createAttachments = `CREATE TABLE attachments (
    behavior TEXT NOT NULL,
    asset_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value TEXT NOT NULL,
    level INTEGER,
    stage INTEGER,
    anchor_tick TEXT,
    last_tick TEXT,
    attached_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (behavior, asset_id, attribute_id)
);`

	createApprovals = `CREATE TABLE approvals (
    behavior TEXT NOT NULL,
    from_asset TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    to_asset TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (behavior, from_asset, attribute_id)
);`

	createEvents = `CREATE TABLE events (
    seq INTEGER PRIMARY KEY,
    event_id TEXT NOT NULL UNIQUE,
    behavior TEXT NOT NULL,
    kind TEXT NOT NULL,
    asset_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    counterparty TEXT,
    value TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createAssets = `CREATE TABLE assets (
    asset_id TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    uri TEXT,
    supply TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createBalances = `CREATE TABLE balances (
    account TEXT NOT NULL,
    asset_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (account, asset_id)
);`

	createLedgerOperators = `CREATE TABLE ledger_operators (
    owner TEXT NOT NULL,
    operator TEXT NOT NULL,
    PRIMARY KEY (owner, operator)
);`

	createGrants = `CREATE TABLE grants (
    name TEXT PRIMARY KEY,
    token TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSettings = `CREATE TABLE settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxAttachmentsAsset = `CREATE INDEX idx_attachments_asset ON attachments(asset_id);`
	idxEventsAsset      = `CREATE INDEX idx_events_asset ON events(asset_id);`
	idxEventsKind       = `CREATE INDEX idx_events_kind ON events(behavior, kind);`
	idxBalancesAsset    = `CREATE INDEX idx_balances_asset ON balances(asset_id);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createDefinitions,
	createAttachments,
	createApprovals,
	createEvents,
	createAssets,
	createBalances,
	createLedgerOperators,
	createGrants,
	createSettings,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxAttachmentsAsset,
	idxEventsAsset,
	idxEventsKind,
	idxBalancesAsset,
}
