package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
	"github.com/dmitrijs2005/gophbudget/internal/server"
	"github.com/dmitrijs2005/gophbudget/internal/server/config"
)

func main() {

	var issue string
	fs := flag.NewFlagSet("issue", flag.ExitOnError)
	fs.StringVar(&issue, "issue", "", "print an access token for this owner and exit")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-issue", "--issue"}))

	cfg := config.LoadConfig()

	if issue != "" {
		token, err := server.IssueToken(cfg, issue)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
