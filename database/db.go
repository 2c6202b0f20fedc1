package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/taqseet/taqseet/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createCustomerTable(db)
	if err != nil {
		return nil, err
	}
	err = createTransactionTable(db)
	if err != nil {
		return nil, err
	}
	err = createAttachmentTable(db)
	if err != nil {
		return nil, err
	}
	err = createReconciliationEventTable(db)
	if err != nil {
		return nil, err
	}
	err = createOverdueRefreshFunction(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createCustomerTable creates a PostgreSQL table for the Customer struct.
// The reconciliation engine only reads customers; the table exists so a
// standalone deployment has somewhere to sync them into.
func createCustomerTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			customer_id TEXT NOT NULL UNIQUE,
			sequence_number TEXT NOT NULL,
			full_name TEXT NOT NULL,
			mobile_number TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createTransactionTable creates a PostgreSQL table for the Transaction
// struct. sequence_number carries a UNIQUE constraint so concurrent
// batches racing past the importer's duplicate check still cannot insert
// a colliding display id.
func createTransactionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			sequence_number TEXT NOT NULL UNIQUE,
			customer_id TEXT NOT NULL REFERENCES customers(customer_id),
			cost_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			extra_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			amount DOUBLE PRECISION NOT NULL,
			installment_amount DOUBLE PRECISION NOT NULL,
			number_of_installments INT NOT NULL,
			start_date TIMESTAMP NOT NULL,
			remaining_balance DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	log.Println(err)
	return err
}

// createAttachmentTable creates a PostgreSQL table for legacy attachment
// references carried through imports.
func createAttachmentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attachments (
			id SERIAL PRIMARY KEY,
			attachment_id TEXT NOT NULL UNIQUE,
			transaction_id TEXT NOT NULL REFERENCES transactions(transaction_id),
			url TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('image', 'pdf')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createReconciliationEventTable creates a PostgreSQL table for mirrored
// gateway events. gateway_id is UNIQUE; redeliveries upsert against it.
func createReconciliationEventTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_events (
			id SERIAL PRIMARY KEY,
			event_id TEXT NOT NULL,
			gateway_id TEXT NOT NULL UNIQUE,
			object_type TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency TEXT,
			status TEXT,
			reference TEXT,
			payer_name TEXT,
			payer_email TEXT,
			payer_phone TEXT,
			matched_customer_id TEXT,
			matched_transaction_id TEXT,
			confidence TEXT NOT NULL,
			payload JSONB,
			processed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createOverdueRefreshFunction installs the routine behind
// RefreshOverdueStatuses. Installments are monthly; a transaction is
// overdue once more months have elapsed since start_date than installments
// have been paid off.
func createOverdueRefreshFunction(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE OR REPLACE FUNCTION refresh_overdue_statuses() RETURNS void AS $$
			UPDATE transactions
			SET status = 'overdue'
			WHERE remaining_balance > 0
			  AND status = 'active'
			  AND start_date + make_interval(months =>
					(CEIL((amount - remaining_balance) / NULLIF(installment_amount, 0))::int + 1)) < NOW()
		$$ LANGUAGE sql
	`)
	log.Println(err)
	return err
}
