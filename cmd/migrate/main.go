package main

import (
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/backorder_backend/config"
	"bitbucket.org/mmdatafocus/backorder_backend/models"
)

func main() {
	maxAttempts := flag.Int("max-attempts", 10, "Database connect attempts (<=0 retries forever)")
	flag.Parse()

	if err := config.ConnectDatabaseWithRetry(*maxAttempts); err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	if err := models.MigrateTable(config.GetDB()); err != nil {
		config.LogError(config.GetLogger(), "cmd", "migrate", "auto migrate", nil, err)
		os.Exit(1)
	}
	fmt.Println("migration complete")
}
