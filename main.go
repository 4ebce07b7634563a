package main

import "wallet-recon/internal/cli"

func main() {
	cli.Execute()
}
