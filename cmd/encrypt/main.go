package main

import (
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/pkg/common"
)

func main() {
	log.Info("encrypting...")

	s := flag.StringP("secret", "s", "", "the key to be used to encrypt the value")

	v := flag.StringP("value", "v", "", "the value to be encrypted")

	flag.Parse()

	k, err := common.Encrypt(*v, *s)
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("encrypted value: %s", k)
}
