// Command server runs the Coderr marketplace API.
//
//	@title						Coderr Marketplace API
//	@version					1.0
//	@description				Freelancer marketplace: profiles, offers with basic, standard and premium details, orders and reviews.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Token <token> or Bearer <token>
package main

import (
	"os"
)

//go:generate swag init -g cmd/server/main.go -o docs -d ../../

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
