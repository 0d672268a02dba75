package db

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type DB struct {
	ctx context.Context

	chainID *big.Int
	db      *pgxpool.Pool

	SponsorDB *SponsorDB
}

// NewDB connects to postgres and makes sure the sponsors table for chainID exists
func NewDB(ctx context.Context, chainID *big.Int, secret, username, password, dbname, port, host string) (*DB, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable", username, password, dbname, host, port)
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	suffix := chainID.String()

	sponsorDB, err := NewSponsorDB(ctx, db, suffix, secret)
	if err != nil {
		db.Close()
		return nil, err
	}

	d := &DB{
		ctx:       ctx,
		chainID:   chainID,
		db:        db,
		SponsorDB: sponsorDB,
	}

	// check if db exists before opening, since we use rwc mode
	exists, err := d.SponsorTableExists(suffix)
	if err != nil {
		db.Close()
		return nil, err
	}

	if !exists {
		log.WithField("table", sponsorTable(suffix)).Info("creating sponsors table")

		err = sponsorDB.CreateSponsorsTable()
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return d, nil
}

// SponsorTableExists checks if the sponsors table of a chain exists
func (db *DB) SponsorTableExists(suffix string) (bool, error) {
	var exists bool
	err := db.db.QueryRow(db.ctx, "SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", sponsorTable(suffix)).Scan(&exists)
	if err != nil {
		// A database error occurred
		return false, err
	}
	return exists, nil
}

// Close closes the connection pool
func (d *DB) Close() {
	d.db.Close()
}
