package bootstrap

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Loadenv loads .env into the process environment. When APP_ENV is set,
// .env.<APP_ENV> is loaded first so its values win over the shared file.
// Variables already present in the environment are never overridden.
func Loadenv() {
	files := []string{".env"}
	if appEnv := os.Getenv("APP_ENV"); appEnv != "" {
		files = append([]string{".env." + appEnv}, files...)
	}

	loaded := 0
	for _, file := range files {
		if err := godotenv.Load(file); err == nil {
			loaded++
		}
	}
	if loaded == 0 {
		log.Println("No .env file found, using system environment variables")
	}
}
