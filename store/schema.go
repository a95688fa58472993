package store

// SQLiteSchema creates the ledger and summary tables. Every cell is TEXT so
// rows that do not parse still round-trip untouched.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS signals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	logged_at TEXT NOT NULL,
	instrument TEXT NOT NULL,
	date TEXT NOT NULL,
	signal TEXT NOT NULL,
	close TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary_trades (
	seq INTEGER NOT NULL,
	buy_date TEXT NOT NULL,
	sell_date TEXT NOT NULL,
	stock TEXT NOT NULL,
	buy_price TEXT NOT NULL,
	sell_price TEXT NOT NULL,
	pnl TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary_metrics (
	total_trades TEXT NOT NULL,
	winning_trades TEXT NOT NULL,
	win_ratio TEXT NOT NULL,
	total_pnl TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_instrument ON signals(instrument);
`

// PostgresSchema is the PostgreSQL flavour of SQLiteSchema.
var PostgresSchema = []string{
	`create table if not exists signals (
		id bigserial primary key,
		logged_at text not null,
		instrument text not null,
		date text not null,
		signal text not null,
		close text not null
	);`,
	`create table if not exists summary_trades (
		seq int not null,
		buy_date text not null,
		sell_date text not null,
		stock text not null,
		buy_price text not null,
		sell_price text not null,
		pnl text not null
	);`,
	`create table if not exists summary_metrics (
		total_trades text not null,
		winning_trades text not null,
		win_ratio text not null,
		total_pnl text not null
	);`,
	`create index if not exists signals_instrument_idx on signals(instrument);`,
}
