package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/imunetrack/internal/admin"
)

func main() {
	if err := admin.Run(context.Background(), os.Args[1:], nil, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
