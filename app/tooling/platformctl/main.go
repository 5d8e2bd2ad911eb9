// This program provides command line access to a running platform node.
package main

import (
	"github.com/beanapologist/productive-mining/app/tooling/platformctl/cmd"
)

func main() {
	cmd.Execute()
}
