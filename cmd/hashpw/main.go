// Command hashpw prompts for a password and prints its bcrypt hash, for
// seeding credentials by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/dpavlenko/cashcard/internal/server/auth"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost")
	flag.Parse()

	fmt.Println("Enter password:")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}

	hasher := auth.NewBcryptHasher(*cost)
	hash, err := hasher.Hash(string(password))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
