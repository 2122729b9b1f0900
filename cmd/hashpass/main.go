// Command hashpass prints the bcrypt hash to put in AUTH_HOST_PASSWORD_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spec-kit/guest-list/internal/auth"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	flag.Parse()

	password := strings.Join(flag.Args(), " ")
	if password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("read password: %v", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		log.Fatal("empty password")
	}

	hash, err := auth.HashPassword(password, *cost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hash)
}
