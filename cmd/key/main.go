package main

import (
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/comunifi/sponsor-relay/pkg/common"
)

func main() {
	secret := flag.String("secret", "", "encrypt the generated key with this secret (KEY_SECRET)")

	flag.Parse()

	log.Info("generating...")

	k, err := common.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	hexKey := hex.EncodeToString(k)

	// key address
	ecdsaKey, err := common.HexToPrivateKey(hexKey)
	if err != nil {
		log.Fatal(err)
	}

	keyAddress := common.PrivateKeyToAddress(ecdsaKey).Hex()

	fmt.Println()
	fmt.Printf("key address: %s\n", keyAddress)
	fmt.Printf("hex key: %s\n", hexKey)

	if *secret != "" {
		sealed, err := common.Encrypt(hexKey, *secret)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("encrypted key: %s\n", sealed)
	}

	fmt.Println()
}
