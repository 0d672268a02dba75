package main

import (
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/pkg/common"
)

func main() {
	log.Info("decrypting...")

	s := flag.StringP("secret", "s", "", "the key to be used to decrypt the value")

	v := flag.StringP("value", "v", "", "the value to be decrypted")

	flag.Parse()

	k, err := common.Decrypt(*v, *s)
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("original value: %s", k)
}
