package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/internal/api"
	"github.com/comunifi/sponsor-relay/internal/config"
	"github.com/comunifi/sponsor-relay/internal/db"
	"github.com/comunifi/sponsor-relay/internal/ethrequest"
	"github.com/comunifi/sponsor-relay/internal/queue"
	"github.com/comunifi/sponsor-relay/internal/sponsor"
	"github.com/comunifi/sponsor-relay/internal/version"
	"github.com/comunifi/sponsor-relay/internal/webhook"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("starting sponsor relay...")

	////////////////////
	// flags
	port := flag.Int("port", 3001, "port to listen on")

	env := flag.String("env", ".env", "path to .env file")

	txqbf := flag.Int("buffer", 1000, "tx queue buffer size")

	notify := flag.Bool("notify", false, "enable webhook notifications")

	flag.Parse()
	////////////////////

	ctx := context.Background()

	////////////////////
	// config
	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}
	////////////////////

	////////////////////
	// evm
	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		log.Fatal(err)
	}
	defer evm.Close()

	chid, err := evm.ChainID()
	if err != nil {
		log.Fatal(err)
	}

	log.WithField("chain_id", chid.String()).Info("node running")
	////////////////////

	////////////////////
	// sponsor
	contract := common.HexToAddress(conf.SponsorAddress)

	key, err := signingKey(ctx, conf, chid, contract)
	if err != nil {
		log.Fatal(err)
	}

	sp, err := sponsor.New(evm, sponsor.Binding{Address: contract, Key: key}, chid)
	if err != nil {
		log.Fatal(err)
	}

	deployed, err := sp.Deployed(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if !deployed {
		log.WithField("sponsor", contract.Hex()).Warn("no contract code at sponsor address")
	}

	log.WithFields(log.Fields{
		"sponsor": sp.Address().Hex(),
		"signer":  sp.From().Hex(),
	}).Info("sponsor bound")
	////////////////////

	////////////////////
	// main error channel
	quitAck := make(chan error)
	defer close(quitAck)
	////////////////////

	////////////////////
	// webhook
	log.Info("starting webhook service...")

	w := webhook.NewMessager(conf.DiscordURL, conf.ChainName, *notify)
	defer func() {
		if r := recover(); r != nil {
			// in case of a panic, notify the webhook messager with an error notification
			err := fmt.Errorf("recovered from panic: %v", r)
			log.Error(err)
			notifyError(ctx, w, err)
		}
	}()

	if err := w.Notify(ctx, "engine started"); err != nil {
		log.WithError(err).Debug("webhook notification failed")
	}
	////////////////////

	////////////////////
	// tx queue
	log.Info("starting tx queue service...")

	txs := queue.NewTxService(ctx, evm, sp, w, conf.ReceiptTimeout)

	// submissions are never retried
	txq, qerr := queue.NewService("tx", 0, *txqbf, ctx)
	defer txq.Close()

	go func() {
		for err := range qerr {
			log.WithError(err).Error("tx queue")
			notifyError(ctx, w, err)
		}
	}()

	go func() {
		quitAck <- txq.Start(txs)
	}()
	////////////////////

	////////////////////
	// api
	s := api.NewServer(version.Info{
		ChainID: chid,
		Sponsor: sp.Address(),
		Signer:  sp.From(),
	}, txq, conf.ResponseTimeout, conf.MaxBodySize)

	r := s.CreateBaseRouter()
	r = s.AddMiddleware(r)
	r = s.AddRoutes(r)

	go func() {
		quitAck <- s.Start(*port, r)
	}()

	log.WithField("port", *port).Info("listening")
	////////////////////

	for err := range quitAck {
		if err != nil {
			notifyError(ctx, w, err)
			log.Fatal(err)
		}
	}

	log.Info("engine stopped")
}

func notifyError(ctx context.Context, w relay.WebhookMessager, err error) {
	if nerr := w.NotifyError(ctx, err); nerr != nil {
		log.WithError(nerr).Debug("webhook notification failed")
	}
}

// signingKey reads the sponsor key from the environment, or from the
// database when no key is configured.
func signingKey(ctx context.Context, conf *config.Config, chid *big.Int, contract common.Address) (*ecdsa.PrivateKey, error) {
	if !conf.UseDB() {
		return sponsor.ParseKey(conf.SponsorPrivateKey, conf.KeySecret)
	}

	log.Info("reading sponsor key from db...")

	d, err := db.NewDB(ctx, chid, conf.KeySecret, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBPort, conf.DBHost)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return sponsor.LoadKey(d.SponsorDB, contract)
}
