package main

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/internal/config"
	"github.com/comunifi/sponsor-relay/internal/contracts/depositor"
	"github.com/comunifi/sponsor-relay/internal/ethrequest"
	"github.com/comunifi/sponsor-relay/internal/sponsor"
)

func main() {
	env := flag.String("env", ".env", "path to .env file")

	sponsorAddr := flag.String("sponsor", "", "sponsor address baked into the contract (default SPONSOR_ADDRESS)")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.SponsorPrivateKey == "" {
		log.Fatal("SPONSOR_PRIVATE_KEY is required to deploy")
	}

	key, err := sponsor.ParseKey(conf.SponsorPrivateKey, conf.KeySecret)
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

	auth, err := bind.NewKeyedTransactorWithChainID(key, chid)
	if err != nil {
		log.Fatal(err)
	}
	auth.Context = ctx

	sp := conf.SponsorAddress
	if *sponsorAddr != "" {
		sp = *sponsorAddr
	}

	if !common.IsHexAddress(sp) {
		log.Fatalf("invalid sponsor address: %s", sp)
	}

	addr, tx, d, err := depositor.Deploy(auth, evm.Backend(), common.HexToAddress(sp))
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(log.Fields{
		"address": addr.Hex(),
		"hash":    tx.Hash().Hex(),
	}).Info("deploying depositor...")

	wctx, cancel := context.WithTimeout(ctx, conf.ReceiptTimeout)
	defer cancel()

	_, err = evm.WaitForTx(wctx, tx)
	if err != nil {
		log.Fatal(err)
	}

	owner, err := d.Owner(ctx)
	if err != nil {
		log.Fatal(err)
	}

	s, err := d.Sponsor(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(log.Fields{
		"address": addr.Hex(),
		"owner":   owner.Hex(),
		"sponsor": s.Hex(),
	}).Info("depositor deployed")
}
