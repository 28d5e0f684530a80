// Package schema holds the raw CREATE TABLE statements for the
// scheduler's storage layer.
package schema

// Schema definitions - no external imports needed.
//
// TableDefinitions contains all the SQL statements to create the
// database tables. Don't put REFERENCES and don't put CHECK
// constraints in the CREATE TABLE statements.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		state VARCHAR(2) NOT NULL,
		zip_code VARCHAR(20) NOT NULL,
		birth_date DATE,
		effective_date DATE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_types (
		name VARCHAR(100) PRIMARY KEY,
		respect_exclusion_windows BOOLEAN NOT NULL DEFAULT TRUE,
		enable_followups BOOLEAN NOT NULL DEFAULT FALSE,
		days_before_event INTEGER NOT NULL DEFAULT 0,
		target_all_contacts BOOLEAN NOT NULL DEFAULT FALSE,
		priority INTEGER NOT NULL DEFAULT 10,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_instances (
		id UUID PRIMARY KEY,
		campaign_type VARCHAR(100) NOT NULL,
		instance_name VARCHAR(255) NOT NULL,
		email_template VARCHAR(255),
		sms_template VARCHAR(255),
		active_start_date DATE,
		active_end_date DATE,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS contact_campaigns (
		contact_id BIGINT NOT NULL,
		campaign_instance_id UUID NOT NULL,
		trigger_date DATE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (contact_id, campaign_instance_id)
	)`,
	`CREATE TABLE IF NOT EXISTS email_schedules (
		id BIGSERIAL PRIMARY KEY,
		contact_id BIGINT NOT NULL,
		email_type VARCHAR(100) NOT NULL,
		scheduled_send_date DATE NOT NULL,
		scheduled_send_time VARCHAR(8) NOT NULL DEFAULT '08:30:00',
		status VARCHAR(20) NOT NULL DEFAULT 'pre-scheduled',
		skip_reason VARCHAR(30) NOT NULL DEFAULT 'none',
		priority INTEGER NOT NULL DEFAULT 10,
		campaign_instance_id UUID,
		email_template VARCHAR(255),
		sms_template VARCHAR(255),
		scheduler_run_id VARCHAR(64) NOT NULL,
		event_year INTEGER NOT NULL DEFAULT 0,
		event_month INTEGER NOT NULL DEFAULT 0,
		event_day INTEGER NOT NULL DEFAULT 0,
		metadata JSONB,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (contact_id, email_type, event_year, event_month, event_day)
	)`,
	`CREATE TABLE IF NOT EXISTS scheduler_checkpoints (
		run_id VARCHAR(64) PRIMARY KEY,
		status VARCHAR(20) NOT NULL DEFAULT 'started',
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		contacts_processed INTEGER NOT NULL DEFAULT 0,
		contacts_scheduled INTEGER NOT NULL DEFAULT 0,
		contacts_skipped INTEGER NOT NULL DEFAULT 0,
		error_message TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tracking_clicks (
		id BIGSERIAL PRIMARY KEY,
		contact_id BIGINT NOT NULL,
		email_schedule_id BIGINT,
		clicked_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_events (
		id BIGSERIAL PRIMARY KEY,
		contact_id BIGINT NOT NULL,
		event_type VARCHAR(100) NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		occurred_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_state ON contacts (state)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_campaigns_status ON contact_campaigns (status)`,
	`CREATE INDEX IF NOT EXISTS idx_email_schedules_contact_id ON email_schedules (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_email_schedules_status ON email_schedules (status)`,
	`CREATE INDEX IF NOT EXISTS idx_email_schedules_send_date ON email_schedules (scheduled_send_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tracking_clicks_contact_id ON tracking_clicks (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_events_contact_id ON contact_events (contact_id)`,
}

// TableNames lists all table names in creation order, for CleanDatabase.
var TableNames = []string{
	"contacts",
	"campaign_types",
	"campaign_instances",
	"contact_campaigns",
	"email_schedules",
	"scheduler_checkpoints",
	"tracking_clicks",
	"contact_events",
}
