// Command atlasloader prints the DDL of the gorm models for the atlas "gorm" env.
package main

import (
	"fmt"
	"io"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"

	"github.com/solcore-labs/corecollection/types"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(types.AllModels()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	_, _ = io.WriteString(os.Stdout, stmts)
}
