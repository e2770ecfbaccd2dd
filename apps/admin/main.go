package main

import (
	"context"
	"log"
	"os"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/storage/document"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	store, err := document.Open(context.Background(), *conf, stdLogger{})
	errAndDie(err)
	defer store.Close()

	// start CLI
	cli := commandLine{
		store:   store,
		usrRepo: document.NewUserRepository(store),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// stdLogger routes store diagnostics to the CLI's standard logger.
type stdLogger struct{}

func (stdLogger) Debug(msg string, args ...interface{}) { logger.Println(append([]interface{}{msg}, args...)...) }
func (stdLogger) Info(msg string, args ...interface{})  { logger.Println(append([]interface{}{msg}, args...)...) }
func (stdLogger) Warn(msg string, args ...interface{})  { logger.Println(append([]interface{}{msg}, args...)...) }
func (stdLogger) Error(msg string, args ...interface{}) { logger.Println(append([]interface{}{msg}, args...)...) }
func (stdLogger) Fatal(msg string, args ...interface{}) { logger.Fatalln(append([]interface{}{msg}, args...)...) }
