package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	plain := "accesscontrol2026"
	if len(os.Args) > 1 {
		plain = os.Args[1]
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
