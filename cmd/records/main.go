package main

import (
	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/sweeper/records"
)

func main() {
	store, err := records.InitStore()
	if err != nil {
		logrus.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	if err = store.InitializeTables(); err != nil {
		logrus.Fatalf("Failed to create tables: %v", err)
	}
	logrus.Info("Tables created")
}
