package main

import "github.com/Arnur12345/tirek-infomatrix-backend/cmd/server/cmd"

func main() {
	cmd.Execute()
}
