// cmd/blastpcr/main.go
package main

import (
	"blastpcr/internal/app"
	"blastpcr/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
