package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnvVariables reads the optional .env file into the process environment.
// Missing file is fine, production sets real environment variables.
func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
}
