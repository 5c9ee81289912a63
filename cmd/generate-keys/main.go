// Command generate-keys outputs fresh member identities.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/Bren2010/roster/crypto/suites"
)

var (
	count = flag.Int("n", 1, "Number of identities to generate.")
)

func usage() string {
	names := make([]string, 0)
	for _, cs := range suites.All() {
		names = append(names, cs.Name())
	}
	return fmt.Sprintf("Usage: generate-keys [-n count] (%v)", strings.Join(names, "|"))
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	flag.Parse()
	if flag.NArg() != 1 || *count < 1 {
		log.Fatal(usage())
	}
	cs, err := suites.FromName(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v\n%v", err, usage())
	}

	for i := 0; i < *count; i++ {
		priv, pub, err := cs.GenerateIdentity()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Private Key: %x\n", priv)
		fmt.Printf("Identity:    %x\n", pub)
	}
}
