// smartbi is a terminal chat for asking business questions in natural
// language and running the SQL the model proposes against a read-only
// database.
package main

import (
	"os"

	"github.com/DachengChen/smartbi/applog"
	"github.com/DachengChen/smartbi/cmd"
)

func main() {
	err := cmd.Execute()
	applog.Close()
	if err != nil {
		os.Exit(1)
	}
}
