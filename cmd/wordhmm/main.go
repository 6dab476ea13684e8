package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/internal/cli"
)

var version = "dev"

func main() {
	err := cli.New(version).Run()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wordhmm:", err)
		os.Exit(1)
	}
}
