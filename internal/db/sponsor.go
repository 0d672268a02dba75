package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

var ErrSponsorNotFound = errors.New("sponsor not found")

// SponsorDB stores the signing key of each sponsor contract on one chain.
// Keys are sealed with secret before they reach the table.
type SponsorDB struct {
	ctx    context.Context
	suffix string
	secret string
	db     *pgxpool.Pool
}

func NewSponsorDB(ctx context.Context, db *pgxpool.Pool, suffix, secret string) (*SponsorDB, error) {
	if secret == "" {
		return nil, errors.New("sponsor db needs a secret")
	}

	return &SponsorDB{
		ctx:    ctx,
		suffix: suffix,
		secret: secret,
		db:     db,
	}, nil
}

func (db *SponsorDB) table() string {
	return sponsorTable(db.suffix)
}

func sponsorTable(suffix string) string {
	return fmt.Sprintf("t_sponsors_%s", suffix)
}

// CreateSponsorsTable creates the sponsors table of this chain
func (db *SponsorDB) CreateSponsorsTable() error {
	_, err := db.db.Exec(db.ctx, fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s(
		contract TEXT NOT NULL PRIMARY KEY,
		pk text NOT NULL,
		created_at timestamp NOT NULL DEFAULT current_timestamp,
		updated_at timestamp NOT NULL DEFAULT current_timestamp
	);
	`, db.table()))

	return err
}

// GetSponsor returns the sponsor of contract with its key opened
func (db *SponsorDB) GetSponsor(contract string) (*relay.Sponsor, error) {
	contract, err := contractKey(contract)
	if err != nil {
		return nil, err
	}

	var sponsor relay.Sponsor
	err = db.db.QueryRow(db.ctx, fmt.Sprintf(`
	SELECT contract, pk, created_at, updated_at
	FROM %s
	WHERE contract = $1
	`, db.table()), contract).Scan(&sponsor.Contract, &sponsor.PrivateKey, &sponsor.CreatedAt, &sponsor.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", contract, ErrSponsorNotFound)
	}
	if err != nil {
		return nil, err
	}

	sponsor.PrivateKey, err = comm.Decrypt(sponsor.PrivateKey, db.secret)
	if err != nil {
		return nil, err
	}

	return &sponsor, nil
}

// AddSponsor stores a new sponsor, or replaces the key of an existing one
// when replace is set
func (db *SponsorDB) AddSponsor(sponsor *relay.Sponsor, replace bool) error {
	contract, err := contractKey(sponsor.Contract)
	if err != nil {
		return err
	}

	sealed, err := comm.Encrypt(sponsor.PrivateKey, db.secret)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO %s(contract, pk, created_at, updated_at)
	VALUES($1, $2, $3, $4)
	`
	if replace {
		query += `ON CONFLICT (contract) DO UPDATE SET pk = EXCLUDED.pk, updated_at = EXCLUDED.updated_at`
	}

	_, err = db.db.Exec(db.ctx, fmt.Sprintf(query, db.table()), contract, sealed, sponsor.CreatedAt, sponsor.UpdatedAt)
	return err
}

// contractKey is the form contracts are stored under: checksummed hex.
func contractKey(contract string) (string, error) {
	if !common.IsHexAddress(contract) {
		return "", fmt.Errorf("bad contract address: %q", contract)
	}

	return common.HexToAddress(contract).Hex(), nil
}
