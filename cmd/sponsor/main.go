package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/internal/config"
	"github.com/comunifi/sponsor-relay/internal/db"
	"github.com/comunifi/sponsor-relay/internal/ethrequest"
	"github.com/comunifi/sponsor-relay/internal/sponsor"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

func main() {
	env := flag.String("env", ".env", "path to .env file")

	pk := flag.StringP("key", "k", "", "hex private key that signs for the sponsor contract")

	update := flag.Bool("update", false, "replace the key of an existing sponsor")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.DBHost == "" || conf.KeySecret == "" {
		log.Fatal("DB_HOST and KEY_SECRET are required")
	}

	// validate before storing
	key, err := sponsor.ParseKey(*pk, "")
	if err != nil {
		log.Fatal(err)
	}

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		log.Fatal(err)
	}
	defer evm.Close()

	chid, err := evm.ChainID()
	if err != nil {
		log.Fatal(err)
	}

	d, err := db.NewDB(ctx, chid, conf.KeySecret, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBPort, conf.DBHost)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	now := time.Now().UTC()
	s := &relay.Sponsor{
		Contract:   common.HexToAddress(conf.SponsorAddress).Hex(),
		PrivateKey: *pk,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = d.SponsorDB.AddSponsor(s, *update)
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(log.Fields{
		"chain_id": chid.String(),
		"sponsor":  s.Contract,
		"signer":   crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}).Info("sponsor key stored")
}
