package main

import (
	"os"

	"github.com/williamokano/img_uploader/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
