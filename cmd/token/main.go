// Command token issues or checks staff bearer tokens for the write routes.
//
//	JWT_SECRET=... token -sub ana -ttl 12h
//	JWT_SECRET=... token -verify "<token>"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"videostore/util/jwt"
)

func main() {
	sub := flag.String("sub", "", "staff member the token is issued to")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	verify := flag.String("verify", "", "token to verify instead of issuing one")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Error("required env missing", "key", "JWT_SECRET")
		os.Exit(2)
	}

	if *verify != "" {
		claims, err := jwt.ParseAuth(*verify, secret)
		if err != nil {
			log.Error("token rejected", "err", err)
			os.Exit(1)
		}
		fmt.Printf("valid: sub=%v role=%v\n", claims["sub"], claims["role"])
		return
	}

	if *sub == "" {
		flag.Usage()
		os.Exit(2)
	}
	tok, err := jwt.Issue(secret, *sub, *ttl, time.Now())
	if err != nil {
		log.Error("issue token", "err", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
